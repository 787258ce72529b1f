package widget

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvctl/internal/dialog/dialogtest"
	"pvctl/internal/vsphere"
	"pvctl/pkg/logging"
)

func TestInventory_Navigation(t *testing.T) {
	api := newFakeAPI()
	api.clusters = []vsphere.Entity{testCluster}
	api.vms = []vsphere.Entity{testVM}
	env, fake := newTestEnv(api,
		dialogtest.Select("Clusters"),
		dialogtest.Select("cluster-1"),
		dialogtest.Escape(), // cluster menu
		dialogtest.Escape(), // cluster list
		dialogtest.Select("Virtual Machines"),
		dialogtest.Select("web-01"),
	)

	require.NoError(t, NewInventory(env, VncDeps{}, "vcenter.lab").Display(context.Background()))

	menus := fake.CallsOf(dialogtest.KindMenu)
	assert.Equal(t, []string{"Clusters", "Virtual Machines", "Logs"}, choiceTags(menus[0]))
	assert.Equal(t, "vcenter.lab", menus[0].Title)
	assert.Equal(t, []string{"cluster-1"}, choiceTags(menus[1]))
	assert.Equal(t, "cluster-1", menus[2].Title)
	assert.Equal(t, []string{"web-01"}, choiceTags(menus[5]))
	assert.Equal(t, []string{"Summary", "Console", "Alarms"}, choiceTags(menus[6]))
}

func TestFindVirtualMachine(t *testing.T) {
	api := newFakeAPI()
	api.vms = []vsphere.Entity{testVM}

	vm, ok, err := FindVirtualMachine(context.Background(), api, "web-01")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, testVM, vm)

	_, ok, err = FindVirtualMachine(context.Background(), api, "db-01")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVirtualMachineWidget_Summary(t *testing.T) {
	f := newVncFixture(map[string]string{vncEnabledKey: "true", vncPortKey: "5905"}, vsphere.PowerStatePoweredOn)
	vm := f.api.machines[testVM.Ref.Value]
	vm.GuestOS = "Ubuntu Linux (64-bit)"
	vm.NumCPU = 2
	vm.MemoryMB = 2048
	f.api.machines[testVM.Ref.Value] = vm

	env, fake := newTestEnv(f.api, dialogtest.Select("Summary"))
	require.NoError(t, NewVirtualMachineWidget(env, f.deps, testVM).Display(context.Background()))

	forms := fake.CallsOf(dialogtest.KindForm)
	require.Len(t, forms, 1)
	values := map[string]string{}
	for _, field := range forms[0].Fields {
		values[field.Label] = field.Value
	}
	assert.Equal(t, "poweredOn", values["Power State"])
	assert.Equal(t, "2.0 GiB", values["Memory"])
	assert.Equal(t, "esx-01", values["Host"])
	assert.Equal(t, "enabled on port 5905", values["VNC Console"])
}

func TestNetworkWidget(t *testing.T) {
	api := newFakeAPI()
	api.networks = []vsphere.Network{
		{Ref: ref("Network", "network-7"), Name: "VM Network"},
		{Ref: ref("DistributedVirtualPortgroup", "dvportgroup-9"), Name: "dvpg-prod"},
	}
	env, fake := newTestEnv(api, dialogtest.Select("dvpg-prod"))

	require.NoError(t, NewNetworkWidget(env, testCluster).Display(context.Background()))

	menu := fake.CallsOf(dialogtest.KindMenu)[0]
	assert.Equal(t, []string{"VM Network", "dvpg-prod"}, choiceTags(menu))
	assert.Equal(t, "DistributedVirtualPortgroup", menu.Choices[1].Description)
	form := fake.CallsOf(dialogtest.KindForm)[0]
	assert.Equal(t, "dvpg-prod", form.Title)
	assert.Equal(t, "DistributedVirtualPortgroup", form.Fields[1].Value)
}

func TestAlarmWidget(t *testing.T) {
	t.Run("lists alarms", func(t *testing.T) {
		api := newFakeAPI()
		api.alarms = []vsphere.Alarm{
			{Name: "Host CPU usage", Status: "red", Time: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), Acknowledged: true},
		}
		env, fake := newTestEnv(api)

		require.NoError(t, NewAlarmWidget(env, testCluster).Display(context.Background()))
		form := fake.CallsOf(dialogtest.KindForm)[0]
		assert.Equal(t, "Host CPU usage", form.Fields[0].Label)
		assert.Contains(t, form.Fields[0].Value, "red")
		assert.Contains(t, form.Fields[0].Value, "(acknowledged)")
	})

	t.Run("no alarms", func(t *testing.T) {
		env, fake := newTestEnv(newFakeAPI())
		require.NoError(t, NewAlarmWidget(env, testCluster).Display(context.Background()))
		assert.Equal(t, []string{"No triggered alarms"}, fake.Messages())
		assert.Empty(t, fake.CallsOf(dialogtest.KindForm))
	})
}

func TestPerformanceWidget(t *testing.T) {
	api := newFakeAPI()
	h := host("esx-01", vsphere.ConnectionStateConnected)
	h.CPUUsageMHz = 1200
	h.CPUMHz = 2000
	h.NumCPUCores = 4
	h.MemoryUsageMB = 1024
	h.MemorySize = 8 << 30
	api.hosts = []vsphere.Host{h}
	env, fake := newTestEnv(api)

	require.NoError(t, NewPerformanceWidget(env, testCluster).Display(context.Background()))
	form := fake.CallsOf(dialogtest.KindForm)[0]
	assert.Equal(t, "esx-01", form.Fields[0].Label)
	assert.Equal(t, "CPU 1200/8000 MHz, Memory 1.0 GiB/8.0 GiB", form.Fields[0].Value)
}

func TestLogWidget(t *testing.T) {
	t.Run("shows entries in a text box", func(t *testing.T) {
		fake := dialogtest.New()
		w := &LogWidget{Dialog: fake, Source: func() []logging.LogEntry {
			return []logging.LogEntry{
				{Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), Level: logging.LevelInfo, Subsystem: "VNC", Message: "launching vncviewer"},
			}
		}}
		require.NoError(t, w.Display(context.Background()))

		boxes := fake.CallsOf(dialogtest.KindTextBox)
		require.Len(t, boxes, 1)
		assert.Contains(t, boxes[0].Text, "launching vncviewer")
	})

	t.Run("empty", func(t *testing.T) {
		fake := dialogtest.New()
		w := &LogWidget{Dialog: fake, Source: func() []logging.LogEntry { return nil }}
		require.NoError(t, w.Display(context.Background()))
		assert.Equal(t, []string{"No log entries yet"}, fake.Messages())
	})
}
