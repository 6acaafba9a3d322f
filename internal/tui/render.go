package tui

import (
	"fmt"
	"strings"

	"github.com/tatianab/tactics-game/internal/board"
)

// statusLines is the height of the state panel above the log.
const statusLines = 10

func (m model) renderState() string {
	b := m.board
	var s strings.Builder

	playback := "Idle"
	if cur := m.ctrl.Current(); cur != nil {
		playback = cur.State().String()
	}
	s.WriteString(titleStyle.Render("GAME") + "  " + playback + "\n")
	fmt.Fprintf(&s, "Turn %d  Round %d/%d  Score %d\n", b.Turn, b.Round, b.Config().Rounds, b.Score)
	fmt.Fprintf(&s, "HP %d/%d  MP %d/%d\n", b.HP, b.Config().AvatarHP, b.MP, b.Config().AvatarMP)
	fmt.Fprintf(&s, "Creep %s %d/%d  Next %s\n", b.Creep.Name, b.Creep.HP, b.Creep.MaxHP, b.Next.Name)

	var cards []string
	for _, name := range b.CardNames() {
		switch n := b.Cards[name]; {
		case n < 0:
			cards = append(cards, name)
		case n > 0:
			cards = append(cards, fmt.Sprintf("%s x%d", name, n))
		}
	}
	s.WriteString(titleStyle.Render("CARDS") + "\n")
	s.WriteString(strings.Join(cards, ", ") + "\n")

	switch {
	case b.Won:
		s.WriteString(greenStyle.Render("VICTORY"))
	case b.Lost:
		s.WriteString(redStyle.Render("DEFEAT"))
	}
	return stateStyle.Width(m.logView.Width).Height(statusLines).Render(s.String())
}

func (m model) renderLog() string {
	lines := make([]string, len(m.board.Lines))
	for i, l := range m.board.Lines {
		switch l.Kind {
		case board.Red:
			lines[i] = redStyle.Render(l.Text)
		case board.Green:
			lines[i] = greenStyle.Render(l.Text)
		default:
			lines[i] = logStyle.Render(l.Text)
		}
	}
	return strings.Join(lines, "\n")
}
