package keyboard

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"
)

var ErrInterrupted = errors.New("interrupted from keyboard")

const ctrlC = 0x03

// Run puts in into raw mode when it is a terminal and calls press for every key until ctx
// is done, input ends or Ctrl-C is pressed.
func Run(ctx context.Context, in *os.File, press func(rune)) error {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer func() {
			_ = term.Restore(fd, old)
		}()
	}
	return read(ctx, bufio.NewReader(in), press)
}

type keyOrErr struct {
	key rune
	err error
}

func read(ctx context.Context, r io.RuneReader, press func(rune)) error {
	logger := zap.L()
	keys := make(chan keyOrErr)
	// the reading goroutine stays blocked on input after ctx is done, there is no way to
	// interrupt a read on stdin.
	go func() {
		for {
			ch, _, err := r.ReadRune()
			select {
			case keys <- keyOrErr{key: ch, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case k := <-keys:
			if errors.Is(k.err, io.EOF) {
				logger.Debug("keyboard input closed")
				return nil
			}
			if k.err != nil {
				return k.err
			}
			if k.key == ctrlC {
				return ErrInterrupted
			}
			logger.Debug("keypress", zap.String("key", string(k.key)))
			press(k.key)
		}
	}
}
