package vnc

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqRand returns the queued values in order, wrapping around.
type seqRand struct {
	values []int
	calls  int
}

func (s *seqRand) IntN(n int) int {
	v := s.values[s.calls%len(s.values)] % n
	s.calls++
	return v
}

type fakeProber struct {
	open    map[int]bool
	allOpen bool
	probed  []int
}

func (p *fakeProber) IsOpen(_ context.Context, _ string, port int) bool {
	p.probed = append(p.probed, port)
	return p.allOpen || p.open[port]
}

func TestFindAvailablePort_FirstFreeWins(t *testing.T) {
	prober := &fakeProber{open: map[int]bool{5901: true}}
	rnd := &seqRand{values: []int{0, 4, 9}}

	port, err := FindAvailablePort(context.Background(), prober, rnd, "10.0.0.1", PortRange{Start: 5901, End: 5999}, 10)
	require.NoError(t, err)
	assert.Equal(t, 5905, port)
	assert.Equal(t, []int{5901, 5905}, prober.probed)
}

func TestFindAvailablePort_ExhaustsAttempts(t *testing.T) {
	prober := &fakeProber{allOpen: true}
	rnd := &seqRand{values: []int{3, 17, 42, 98}}

	_, err := FindAvailablePort(context.Background(), prober, rnd, "10.0.0.1", PortRange{Start: 5901, End: 5999}, 10)
	assert.ErrorIs(t, err, ErrNoPortAvailable)
	assert.Len(t, prober.probed, 10)
	for _, p := range prober.probed {
		assert.GreaterOrEqual(t, p, 5901)
		assert.LessOrEqual(t, p, 5999)
	}
}

func TestFindAvailablePort_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prober := &fakeProber{}
	_, err := FindAvailablePort(ctx, prober, &seqRand{values: []int{0}}, "h", PortRange{Start: 5901, End: 5999}, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, prober.probed)
}

func TestRandomPassword(t *testing.T) {
	pw := RandomPassword(&seqRand{values: []int{0, 26, 52, 61}}, 8)
	assert.Equal(t, "aA09aA09", pw)
	assert.Len(t, RandomPassword(&seqRand{values: []int{5}}, 12), 12)
}

func TestDialProber(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port

	prober := DialProber{Timeout: time.Second}
	assert.True(t, prober.IsOpen(context.Background(), "127.0.0.1", port))

	require.NoError(t, ln.Close())
	assert.False(t, prober.IsOpen(context.Background(), "127.0.0.1", port))
}

type fakeRunner struct {
	runStdin   []byte
	runErr     error
	startName  string
	startArgs  []string
	startErr   error
	started    bool
	passwdSeen bool
}

func (r *fakeRunner) Run(_ context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	r.runStdin = stdin
	if r.runErr != nil {
		return nil, r.runErr
	}
	return []byte{0x01, 0x02, 0x03}, nil
}

func (r *fakeRunner) Start(name string, args []string) error {
	r.started = true
	r.startName = name
	r.startArgs = args
	if len(args) >= 2 {
		_, err := os.Stat(args[len(args)-2])
		r.passwdSeen = err == nil
	}
	return r.startErr
}

func newTestLauncher(t *testing.T, runner *fakeRunner) (*Launcher, string, *time.Duration) {
	dir := t.TempDir()
	var slept time.Duration
	return &Launcher{
		Runner:        runner,
		PasswdCommand: []string{"vncpasswd", "-f"},
		ViewerCommand: []string{"vncviewer"},
		CleanupDelay:  3 * time.Second,
		TempDir:       dir,
		Sleep:         func(d time.Duration) { slept = d },
	}, dir, &slept
}

func assertNoPasswdFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, passwdFilePrefix+"*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "password file must be removed")
}

func TestLaunch_Success(t *testing.T) {
	runner := &fakeRunner{}
	l, dir, slept := newTestLauncher(t, runner)

	err := l.Launch(context.Background(), "10.0.0.5", 5905, "s3cr3t")
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t\ns3cr3t\n", string(runner.runStdin))
	assert.True(t, runner.started)
	assert.Equal(t, "vncviewer", runner.startName)
	require.Len(t, runner.startArgs, 3)
	assert.Equal(t, "-passwd", runner.startArgs[0])
	assert.True(t, strings.HasPrefix(filepath.Base(runner.startArgs[1]), passwdFilePrefix))
	assert.Equal(t, "10.0.0.5:5905", runner.startArgs[2])
	assert.True(t, runner.passwdSeen, "password file must exist while the viewer starts")
	assert.Equal(t, 3*time.Second, *slept)
	assertNoPasswdFiles(t, dir)
}

func TestLaunch_PasswdFailureSkipsViewer(t *testing.T) {
	runner := &fakeRunner{runErr: errors.New("vncpasswd: not found")}
	l, dir, _ := newTestLauncher(t, runner)

	err := l.Launch(context.Background(), "10.0.0.5", 5905, "pw")
	assert.ErrorIs(t, err, ErrPasswdFile)
	assert.False(t, runner.started)
	assertNoPasswdFiles(t, dir)
}

func TestLaunch_ViewerFailureStillCleansUp(t *testing.T) {
	runner := &fakeRunner{startErr: errors.New("exec: vncviewer: not found")}
	l, dir, slept := newTestLauncher(t, runner)

	err := l.Launch(context.Background(), "10.0.0.5", 5905, "pw")
	assert.ErrorIs(t, err, ErrViewerStart)
	assert.Equal(t, 3*time.Second, *slept)
	assertNoPasswdFiles(t, dir)
}
