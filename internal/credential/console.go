package credential

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Console is the interactive surface the resolver prompts through. All
// output goes to the error stream.
type Console interface {
	// Interactive reports whether both input and the error stream are terminals.
	Interactive() bool
	// ReadSecret prints prompt and reads a line with echo disabled.
	ReadSecret(prompt string) ([]byte, error)
	// ReadLine prints prompt and reads one line, without the trailing newline.
	ReadLine(prompt string) (string, error)
	// Say writes msg and a newline.
	Say(msg string)
}

// Terminal is a Console over real file descriptors.
type Terminal struct {
	in     *os.File
	out    *os.File
	reader *bufio.Reader

	mu    sync.Mutex
	saved *term.State // terminal state before a pending ReadSecret
}

// NewTerminal prompts on out and reads from in. The CLI passes os.Stdin and
// os.Stderr.
func NewTerminal(in, out *os.File) *Terminal {
	return &Terminal{in: in, out: out, reader: bufio.NewReader(in)}
}

func (t *Terminal) Interactive() bool {
	return term.IsTerminal(int(t.in.Fd())) && term.IsTerminal(int(t.out.Fd()))
}

func (t *Terminal) ReadSecret(prompt string) ([]byte, error) {
	fd := int(t.in.Fd())
	if st, err := term.GetState(fd); err == nil {
		t.mu.Lock()
		t.saved = st
		t.mu.Unlock()
	}
	defer func() {
		t.mu.Lock()
		t.saved = nil
		t.mu.Unlock()
	}()

	fmt.Fprint(t.out, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(t.out)
	return b, err
}

// Restore puts the terminal back into the state it had before a
// ReadSecret that is still blocked, turning echo back on. The process
// may exit before ReadSecret returns, so the dispatcher calls this on
// interrupt. Without a pending read it does nothing.
func (t *Terminal) Restore() error {
	t.mu.Lock()
	st := t.saved
	t.saved = nil
	t.mu.Unlock()
	if st == nil {
		return nil
	}
	fmt.Fprintln(t.out)
	return term.Restore(int(t.in.Fd()), st)
}

func (t *Terminal) ReadLine(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	line, err := t.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) Say(msg string) {
	fmt.Fprintln(t.out, msg)
}

var _ Console = (*Terminal)(nil)
