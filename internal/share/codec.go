// Package share converts player programs to and from URL-safe tokens.
package share

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/klauspost/compress/flate"
	"github.com/sirupsen/logrus"

	"github.com/tatianab/tactics-game/internal/logger"
)

// MaxTokenLen bounds the length of an encoded program.
const MaxTokenLen = 1800

// maxDecodedLen caps inflation of hostile tokens.
const maxDecodedLen = 1 << 20

var (
	// ErrTooLarge means the program cannot be shared at all.
	ErrTooLarge = errors.New("program is too large to share")
	ErrDecode   = errors.New("malformed share token")
)

// DecodeError wraps the reason a token could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode share token: " + e.Err.Error() }

func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }

var encoding = base64.RawURLEncoding

// Encode minifies src and packs it into a token of at most MaxTokenLen
// characters. Programs that do not scan as Go are packed as written.
func Encode(src string) (string, error) {
	text, err := Minify(src)
	if err != nil {
		logger.Log.WithError(err).Debug("share: program does not scan, packing verbatim")
		text = src
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(w, text); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	token := encoding.EncodeToString(buf.Bytes())
	if len(token) > MaxTokenLen {
		logger.Log.WithFields(logrus.Fields{
			"component": "share",
			"length":    len(token),
		}).Info("program too large to share")
		return "", ErrTooLarge
	}
	return token, nil
}

// Decode unpacks a token and returns the program in canonical format.
// A program that does not parse is returned as decoded.
func Decode(token string) (string, error) {
	raw, err := encoding.DecodeString(token)
	if err != nil {
		return "", &DecodeError{Err: err}
	}

	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()
	text, err := io.ReadAll(io.LimitReader(r, maxDecodedLen+1))
	if err != nil {
		return "", &DecodeError{Err: err}
	}
	if len(text) > maxDecodedLen {
		return "", &DecodeError{Err: fmt.Errorf("program exceeds %d bytes", maxDecodedLen)}
	}

	pretty, err := Format(string(text))
	if err != nil {
		logger.Log.WithError(err).Debug("share: decoded program does not format")
		return string(text), nil
	}
	return pretty, nil
}

// Link builds a shareable URL carrying token and the avatar selector.
func Link(base, token string, avatar int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse share base url: %w", err)
	}
	q := u.Query()
	q.Set("code", token)
	q.Set("avatar", strconv.Itoa(avatar))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseLink extracts the token and avatar from a share link. A bare token
// is accepted too, with avatar -1.
func ParseLink(raw string) (token string, avatar int, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw, -1, nil
	}
	q := u.Query()
	token = q.Get("code")
	if token == "" {
		return "", -1, &DecodeError{Err: errors.New("link has no code parameter")}
	}
	avatar = -1
	if s := q.Get("avatar"); s != "" {
		avatar, err = strconv.Atoi(s)
		if err != nil {
			return "", -1, &DecodeError{Err: fmt.Errorf("bad avatar %q: %w", s, err)}
		}
	}
	return token, avatar, nil
}
