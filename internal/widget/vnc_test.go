package widget

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvctl/internal/dialog/dialogtest"
	"pvctl/internal/vnc"
	"pvctl/internal/vsphere"
)

type stepRand struct{ next int }

func (r *stepRand) IntN(n int) int {
	v := r.next % n
	r.next++
	return v
}

type stubProber struct {
	open   map[int]bool
	allOn  bool
	probes []int
}

func (p *stubProber) IsOpen(_ context.Context, _ string, port int) bool {
	p.probes = append(p.probes, port)
	return p.allOn || p.open[port]
}

type recordingLauncher struct {
	calls []string
	err   error
}

func (l *recordingLauncher) Launch(_ context.Context, host string, port int, password string) error {
	l.calls = append(l.calls, fmt.Sprintf("%s %d %s", host, port, password))
	return l.err
}

var testVM = vsphere.Entity{Ref: ref("VirtualMachine", "vm-42"), Name: "web-01"}

type vncFixture struct {
	api      *fakeAPI
	prober   *stubProber
	launcher *recordingLauncher
	deps     VncDeps
}

func newVncFixture(extra map[string]string, power vsphere.PowerState) *vncFixture {
	api := newFakeAPI()
	esx := host("esx-01", vsphere.ConnectionStateConnected)
	esx.IPAddress = "192.0.2.10"
	api.hosts = []vsphere.Host{esx}
	api.machines[testVM.Ref.Value] = vsphere.VirtualMachine{
		Ref:         testVM.Ref,
		Name:        testVM.Name,
		PowerState:  power,
		Host:        esx.Ref,
		ExtraConfig: extra,
	}
	f := &vncFixture{
		api:      api,
		prober:   &stubProber{open: map[int]bool{}},
		launcher: &recordingLauncher{},
	}
	f.deps = VncDeps{
		Prober:         f.prober,
		Rand:           &stepRand{},
		Launcher:       f.launcher,
		Ports:          vnc.PortRange{Start: 5901, End: 5999},
		PortAttempts:   10,
		PasswordLength: 8,
	}
	return f
}

func (f *vncFixture) run(t *testing.T, script ...dialogtest.Response) *dialogtest.Fake {
	t.Helper()
	env, fake := newTestEnv(f.api, script...)
	w, err := NewVncWidget(env, f.deps, testVM)
	require.NoError(t, err)
	require.NoError(t, w.Display(context.Background()))
	return fake
}

func optionMap(opts []vsphere.Option) map[string]string {
	m := map[string]string{}
	for _, o := range opts {
		m[o.Key] = o.Value
	}
	return m
}

func TestNewVncWidget_RejectsOtherTypes(t *testing.T) {
	env, _ := newTestEnv(newFakeAPI())
	_, err := NewVncWidget(env, VncDeps{}, testCluster)
	assert.ErrorIs(t, err, ErrNotVirtualMachine)
}

func TestVncWidget_Menu(t *testing.T) {
	f := newVncFixture(map[string]string{}, vsphere.PowerStatePoweredOn)
	fake := f.run(t)
	assert.Equal(t, []string{"Console", "Enable", "Disable", "Settings"}, choiceTags(fake.CallsOf(dialogtest.KindMenu)[0]))
}

func TestVncWidget_Enable(t *testing.T) {
	t.Run("already enabled is a no-op", func(t *testing.T) {
		f := newVncFixture(map[string]string{vncEnabledKey: "TRUE"}, vsphere.PowerStatePoweredOn)
		fake := f.run(t, dialogtest.Select("Enable"))

		assert.Empty(t, f.api.callsTo("Reconfigure"))
		assert.Equal(t, []string{"VNC console is already enabled"}, fake.Messages())
	})

	t.Run("allocates port and password", func(t *testing.T) {
		f := newVncFixture(map[string]string{}, vsphere.PowerStatePoweredOn)
		f.prober.open[5901] = true
		fake := f.run(t, dialogtest.Select("Enable"))

		calls := f.api.callsTo("Reconfigure")
		require.Len(t, calls, 1)
		opts := optionMap(calls[0].Options)
		assert.Equal(t, "true", opts[vncEnabledKey])
		assert.Equal(t, "5902", opts[vncPortKey])
		assert.Len(t, opts[vncPasswordKey], 8)
		assert.Equal(t, []int{5901, 5902}, f.prober.probes)
		assert.Len(t, fake.CallsOf(dialogtest.KindGauge), 1)
	})

	t.Run("keeps configured port and password", func(t *testing.T) {
		f := newVncFixture(map[string]string{
			vncEnabledKey:  "false",
			vncPortKey:     "5977",
			vncPasswordKey: "hunter22",
		}, vsphere.PowerStatePoweredOn)
		f.run(t, dialogtest.Select("Enable"))

		calls := f.api.callsTo("Reconfigure")
		require.Len(t, calls, 1)
		assert.Equal(t, []vsphere.Option{
			{Key: vncEnabledKey, Value: "true"},
			{Key: vncPortKey, Value: "5977"},
			{Key: vncPasswordKey, Value: "hunter22"},
		}, calls[0].Options)
		assert.Empty(t, f.prober.probes)
	})

	t.Run("all ports taken", func(t *testing.T) {
		f := newVncFixture(map[string]string{}, vsphere.PowerStatePoweredOn)
		f.prober.allOn = true
		fake := f.run(t, dialogtest.Select("Enable"))

		assert.Len(t, f.prober.probes, 10)
		assert.Empty(t, f.api.callsTo("Reconfigure"))
		assert.Equal(t, []string{"No available ports for VNC connection, try again later."}, fake.Messages())
	})
}

func TestVncWidget_Disable(t *testing.T) {
	f := newVncFixture(map[string]string{vncEnabledKey: "true"}, vsphere.PowerStatePoweredOn)
	f.run(t, dialogtest.Select("Disable"))

	calls := f.api.callsTo("Reconfigure")
	require.Len(t, calls, 1)
	assert.Equal(t, []vsphere.Option{{Key: vncEnabledKey, Value: "false"}}, calls[0].Options)
}

func TestVncWidget_Settings(t *testing.T) {
	extra := map[string]string{vncPortKey: "5905", vncPasswordKey: "abc"}

	t.Run("applies on OK", func(t *testing.T) {
		f := newVncFixture(extra, vsphere.PowerStatePoweredOn)
		fake := f.run(t, dialogtest.Select("Settings"), dialogtest.Submit("true", "5910", "newpass"))

		form := fake.CallsOf(dialogtest.KindForm)[0]
		assert.Equal(t, "false", form.Fields[0].Value)
		assert.Equal(t, "5905", form.Fields[1].Value)
		assert.Equal(t, 8, form.Fields[2].MaxLength)

		calls := f.api.callsTo("Reconfigure")
		require.Len(t, calls, 1)
		assert.Equal(t, map[string]string{
			vncEnabledKey:  "true",
			vncPortKey:     "5910",
			vncPasswordKey: "newpass",
		}, optionMap(calls[0].Options))
	})

	t.Run("empty field aborts", func(t *testing.T) {
		f := newVncFixture(extra, vsphere.PowerStatePoweredOn)
		fake := f.run(t, dialogtest.Select("Settings"), dialogtest.Submit("true", "", "newpass"))

		assert.Empty(t, f.api.callsTo("Reconfigure"))
		assert.Equal(t, []string{"Invalid configuration settings"}, fake.Messages())
	})

	t.Run("cancel aborts", func(t *testing.T) {
		f := newVncFixture(extra, vsphere.PowerStatePoweredOn)
		f.run(t, dialogtest.Select("Settings"), dialogtest.Escape())
		assert.Empty(t, f.api.callsTo("Reconfigure"))
	})
}

func TestVncWidget_Console(t *testing.T) {
	enabled := map[string]string{vncEnabledKey: "true", vncPortKey: "5905", vncPasswordKey: "pw123456"}

	t.Run("powered off", func(t *testing.T) {
		f := newVncFixture(enabled, vsphere.PowerStatePoweredOff)
		fake := f.run(t, dialogtest.Select("Console"))

		assert.Empty(t, f.launcher.calls)
		assert.Equal(t, []string{"You need to power on the Virtual Machine first"}, fake.Messages())
	})

	t.Run("console disabled", func(t *testing.T) {
		f := newVncFixture(map[string]string{vncEnabledKey: "false", vncPortKey: "5905"}, vsphere.PowerStatePoweredOn)
		fake := f.run(t, dialogtest.Select("Console"))

		assert.Empty(t, f.launcher.calls)
		assert.Equal(t, []string{"VNC console is disabled, enable the console first"}, fake.Messages())
	})

	t.Run("port unreachable", func(t *testing.T) {
		f := newVncFixture(enabled, vsphere.PowerStatePoweredOn)
		fake := f.run(t, dialogtest.Select("Console"))

		assert.Empty(t, f.launcher.calls)
		require.Len(t, fake.Messages(), 1)
		assert.Contains(t, fake.Messages()[0], "not reachable on port 5905")
	})

	t.Run("launches viewer", func(t *testing.T) {
		f := newVncFixture(enabled, vsphere.PowerStatePoweredOn)
		f.prober.open[5905] = true
		fake := f.run(t, dialogtest.Select("Console"))

		assert.Equal(t, []string{"192.0.2.10 5905 pw123456"}, f.launcher.calls)
		assert.Empty(t, fake.Messages())
	})

	t.Run("launch failure is reported", func(t *testing.T) {
		f := newVncFixture(enabled, vsphere.PowerStatePoweredOn)
		f.prober.open[5905] = true
		f.launcher.err = errors.New("cannot start vncviewer(1): not found")
		fake := f.run(t, dialogtest.Select("Console"))

		assert.Equal(t, []string{"cannot start vncviewer(1): not found"}, fake.Messages())
	})
}

type failingRunner struct{ started int }

func (r *failingRunner) Run(context.Context, string, []string, []byte) ([]byte, error) {
	return []byte("obfuscated"), nil
}

func (r *failingRunner) Start(string, []string) error {
	r.started++
	return errors.New("exec: \"vncviewer\": executable file not found in $PATH")
}

func TestVncWidget_ConsoleRemovesPasswordFile(t *testing.T) {
	dir := t.TempDir()
	runner := &failingRunner{}

	f := newVncFixture(map[string]string{vncEnabledKey: "true", vncPortKey: "5905", vncPasswordKey: "pw"}, vsphere.PowerStatePoweredOn)
	f.prober.open[5905] = true
	f.deps.Launcher = &vnc.Launcher{
		Runner:        runner,
		PasswdCommand: []string{"vncpasswd", "-f"},
		ViewerCommand: []string{"vncviewer"},
		CleanupDelay:  time.Second,
		TempDir:       dir,
		Sleep:         func(time.Duration) {},
	}
	fake := f.run(t, dialogtest.Select("Console"))

	assert.Equal(t, 1, runner.started)
	require.Len(t, fake.Messages(), 1)
	matches, err := filepath.Glob(filepath.Join(dir, "pvcvnc_*"))
	require.NoError(t, err)
	assert.Empty(t, matches)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
