package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tatianab/tactics-game/internal/engine"
	"github.com/tatianab/tactics-game/internal/share"
)

var (
	shareAvatar int
	shareLink   bool
)

func ShareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Convert programs to and from share tokens",
	}
	cmd.AddCommand(shareEncodeCommand())
	cmd.AddCommand(shareDecodeCommand())
	return cmd
}

func shareEncodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [program.go | -]",
		Short: "Print the share token (or link) for a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			program, err := readProgram(cmd, args)
			if err != nil {
				return err
			}
			if program == "" {
				program = engine.DefaultProgram
			}

			token, err := share.Encode(program)
			if errors.Is(err, share.ErrTooLarge) {
				return fmt.Errorf("program cannot be shared: %w", err)
			}
			if err != nil {
				return err
			}
			if !shareLink {
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			}
			link, err := share.Link(cfg.ShareURL, token, shareAvatar)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
	cmd.Flags().BoolVar(&shareLink, "link", false, "Print a full share link instead of the bare token")
	cmd.Flags().IntVar(&shareAvatar, "avatar", 0, "Avatar carried by the link")
	return cmd
}

func shareDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token | link>",
		Short: "Print the program carried by a token or link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}
			program, _, err := decodeShared(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), program)
			return nil
		},
	}
}

// decodeShared accepts a bare token or a share link.
func decodeShared(raw string) (program string, avatar int, err error) {
	token, avatar, err := share.ParseLink(raw)
	if err != nil {
		return "", -1, err
	}
	program, err = share.Decode(token)
	if err != nil {
		return "", -1, err
	}
	return program, avatar, nil
}
