// Package utils holds terminal helpers for the command line tool.
package utils

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	ErrorColor   = "\x1b[31m"
	SuccessColor = "\x1b[92m"
	DefaultColor = "\x1b[0m"
)

var spinnerFrames = []rune(`⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏`)

// Spinner redraws a message with a rotating glyph until it is stopped.
type Spinner struct {
	mu         sync.Mutex
	delay      time.Duration
	writer     io.Writer
	message    string
	lastOutput string
	hideCursor bool
	started    bool

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewSpinner returns a spinner writing to stderr.
func NewSpinner(msg string, d time.Duration) *Spinner {
	return NewSpinnerTo(os.Stderr, msg, d)
}

// NewSpinnerTo returns a spinner writing to w.
func NewSpinnerTo(w io.Writer, msg string, d time.Duration) *Spinner {
	if d <= 0 {
		d = 100 * time.Millisecond
	}
	return &Spinner{
		delay:   d,
		writer:  w,
		message: msg,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// HideCursor hides the terminal cursor while the spinner runs.
func (s *Spinner) HideCursor() *Spinner {
	s.hideCursor = runtime.GOOS != "windows"
	return s
}

// SetMessage replaces the text shown next to the glyph.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
}

// Start draws in the background until Stop is called.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	if s.hideCursor {
		fmt.Fprint(s.writer, "\033[?25l")
	}
	go s.run()
}

func (s *Spinner) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.mu.Lock()
		s.clear()
		frame := spinnerFrames[i%len(spinnerFrames)]
		fmt.Fprintf(s.writer, "\r%s %s%c%s", s.message, SuccessColor, frame, DefaultColor)
		s.lastOutput = fmt.Sprintf("%s %c", s.message, frame)
		s.mu.Unlock()

		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

// Stop halts the animation, clears the line and prints final. It waits for
// the drawing goroutine and may be called more than once.
func (s *Spinner) Stop(final string) {
	s.once.Do(func() {
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()

		close(s.stop)
		if started {
			<-s.done
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.clear()
		if s.hideCursor {
			fmt.Fprint(s.writer, "\033[?25h")
		}
		if final != "" {
			fmt.Fprint(s.writer, final)
		}
	})
}

// clear erases the last drawn line. Caller must hold the lock.
func (s *Spinner) clear() {
	if s.lastOutput == "" {
		return
	}
	n := utf8.RuneCountInString(s.lastOutput)
	fmt.Fprint(s.writer, "\r"+strings.Repeat(" ", n)+"\r")
	s.lastOutput = ""
}

// Colorize wraps msg in the given terminal colour.
func Colorize(color, msg string) string {
	return color + msg + DefaultColor
}
