// Package factor delegates integer polynomial factorization to a
// long-running Pari/GP child process. The protocol is line based: one
// request line per polynomial, response lines until a "Done" sentinel, a
// five second deadline per request.
package factor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonathanmweiss/go-locus/poly"
)

const requestTimeout = 5 * time.Second

// Service errors. A timeout is recovered internally by treating the input
// as irreducible; the remaining conditions surface to the caller.
var (
	ErrTimeout      = errors.New("factor: request timed out")
	ErrTerminated   = errors.New("factor: child process terminated unexpectedly")
	ErrBadResponse  = errors.New("factor: unparseable response")
	ErrVerification = errors.New("factor: factor product does not match the input")
)

// Service owns a Pari/GP child process. The process starts lazily on the
// first request and is restarted after an error or timeout; Close kills and
// reaps it. One request runs at a time.
type Service struct {
	path string
	args []string

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	lines   chan string
	timeout time.Duration
}

// NewService returns a Service that will run the given gp executable.
func NewService(path string) *Service {
	return &Service{
		path:    path,
		args:    []string{"-q", "-s", "128000000"},
		timeout: requestTimeout,
	}
}

func (s *Service) start() error {
	if s.cmd != nil {
		return nil
	}

	cmd := exec.Command(s.path, s.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("factor: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("factor: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("factor: failed to spawn %s: %w", s.path, err)
	}

	// Generously buffered so the reader goroutine keeps draining while the
	// caller parses or after a timeout abandons the channel.
	lines := make(chan string, 1024)
	go func() {
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	s.cmd = cmd
	s.stdin = stdin
	s.lines = lines
	return nil
}

func (s *Service) stop() {
	if s.cmd == nil {
		return
	}
	s.stdin.Close()
	s.cmd.Process.Kill()
	s.cmd.Wait()
	s.cmd = nil
	s.stdin = nil
	s.lines = nil
}

// Close kills the child process and releases its pipes.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
}

// runTask sends one request line and collects the response lines preceding
// the "Done" sentinel. On deadline expiry the child is killed and
// ErrTimeout returned.
func (s *Service) runTask(task string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.start(); err != nil {
		return nil, err
	}

	if _, err := io.WriteString(s.stdin, task+"\n"); err != nil {
		s.stop()
		return nil, fmt.Errorf("factor: write request: %w", err)
	}

	var output []string
	deadline := time.NewTimer(s.timeout)
	defer deadline.Stop()

	for {
		select {
		case line, ok := <-s.lines:
			if !ok {
				s.stop()
				return nil, ErrTerminated
			}
			if strings.TrimSpace(line) == "Done" {
				return output, nil
			}
			output = append(output, line)
		case <-deadline.C:
			s.stop()
			return nil, ErrTimeout
		}
	}
}

// Factor returns the irreducible factors of p, without multiplicity. The
// child's factor and exponent lists are parsed, the product is rebuilt and
// compared against the input (negating once for a sign mismatch). A timeout
// degrades to treating p as irreducible.
func (s *Service) Factor(p *poly.Poly) ([]*poly.Poly, error) {
	task := fmt.Sprintf(
		"{expr = Vec(factor(%s));print(expr[1]);print(expr[2]);print(\"Done\")}", p)

	lines, err := s.runTask(task)
	if errors.Is(err, ErrTimeout) {
		return []*poly.Poly{p}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: expected two lines, got %d", ErrBadResponse, len(lines))
	}

	factorStrings, err := parseList(lines[0])
	if err != nil {
		return nil, err
	}
	exponentStrings, err := parseList(lines[1])
	if err != nil {
		return nil, err
	}
	if len(factorStrings) != len(exponentStrings) {
		return nil, fmt.Errorf("%w: %d factors but %d exponents",
			ErrBadResponse, len(factorStrings), len(exponentStrings))
	}

	factors := make([]*poly.Poly, len(factorStrings))
	for i, str := range factorStrings {
		factor, err := poly.ParseExpression(str)
		if err != nil {
			return nil, fmt.Errorf("%w: factor %q: %v", ErrBadResponse, str, err)
		}
		factors[i] = factor
	}
	exponents := make([]int, len(exponentStrings))
	for i, str := range exponentStrings {
		exponent, err := strconv.Atoi(str)
		if err != nil {
			return nil, fmt.Errorf("%w: exponent %q", ErrBadResponse, str)
		}
		exponents[i] = exponent
	}

	reconstructed := poly.NewConstant(1)
	for i, factor := range factors {
		power := factor
		for j := 1; j < exponents[i]; j++ {
			power = power.Multiply(factor)
		}
		reconstructed = reconstructed.Multiply(power)
	}
	if !reconstructed.Equal(p) {
		reconstructed.Negate()
		if !reconstructed.Equal(p) {
			return nil, fmt.Errorf("%w: input %s, product %s", ErrVerification, p, reconstructed)
		}
	}
	return factors, nil
}

// parseList reads a Pari column vector "[e1,e2,...]~", optionally wrapped
// in parentheses.
func parseList(line string) ([]string, error) {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]~") {
		return nil, fmt.Errorf("%w: list %q", ErrBadResponse, line)
	}
	content := trimmed[1 : len(trimmed)-2]
	parts := strings.Split(content, ",")
	result := make([]string, len(parts))
	for i, part := range parts {
		result[i] = strings.TrimSpace(part)
	}
	return result, nil
}
