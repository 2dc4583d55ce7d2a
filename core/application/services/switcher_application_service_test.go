package services

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

type mockDirectory struct {
	mu        sync.Mutex
	adapters  []entities.Adapter
	listErr   error
	block     chan struct{}
	entered   chan struct{}
	listCalls int
}

func newMockDirectory(adapters ...entities.Adapter) *mockDirectory {
	return &mockDirectory{adapters: adapters}
}

func (m *mockDirectory) List(ctx context.Context) ([]entities.Adapter, error) {
	m.mu.Lock()
	m.listCalls++
	err := m.listErr
	out := append([]entities.Adapter(nil), m.adapters...)
	m.mu.Unlock()
	return out, err
}

func (m *mockDirectory) ListNames(ctx context.Context) ([]string, error) {
	adapters, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	return entities.AdapterNames(adapters), nil
}

func (m *mockDirectory) IsConnected(ctx context.Context, name string) (bool, error) {
	if m.entered != nil {
		close(m.entered)
		<-m.block
	}
	adapters, err := m.List(ctx)
	if err != nil {
		return false, err
	}
	for _, a := range adapters {
		if a.Name == name {
			return a.IsConnected(), nil
		}
	}
	return false, entities.ErrAdapterNotFound
}

func (m *mockDirectory) setState(name string, state entities.AdapterState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.adapters {
		if m.adapters[i].Name == name {
			m.adapters[i].State = state
		}
	}
}

type mockController struct {
	dir       *mockDirectory
	enableErr error
	calls     []string
}

func (m *mockController) Enable(ctx context.Context, name string) error {
	m.calls = append(m.calls, "enable "+name)
	if m.enableErr != nil {
		return m.enableErr
	}
	m.dir.setState(name, entities.AdapterConnected)
	return nil
}

func (m *mockController) Disable(ctx context.Context, name string) error {
	m.calls = append(m.calls, "disable "+name)
	m.dir.setState(name, entities.AdapterNotConnected)
	return nil
}

type mockStore struct {
	nameA, nameB string
	loadErr      error
	saveErr      error
	saves        int
}

func (m *mockStore) Load(ctx context.Context) (string, string, error) {
	return m.nameA, m.nameB, m.loadErr
}

func (m *mockStore) Save(ctx context.Context, nameA, nameB string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.nameA, m.nameB = nameA, nameB
	return nil
}

func defaultAdapters() []entities.Adapter {
	return []entities.Adapter{
		{Name: "Wi-Fi", State: entities.AdapterConnected},
		{Name: "Ethernet", State: entities.AdapterNotConnected},
		{Name: "Ethernet 2", State: entities.AdapterNotConnected},
	}
}

func newTestService(store *mockStore) (*SwitcherApplicationService, *mockDirectory, *mockController) {
	dir := newMockDirectory(defaultAdapters()...)
	ctrl := &mockController{dir: dir}
	return NewSwitcherApplicationService(dir, ctrl, store), dir, ctrl
}

func TestSwitch_SavesSelection(t *testing.T) {
	store := &mockStore{}
	svc, _, ctrl := newTestService(store)

	result := svc.Switch(context.Background(), entities.Selection{Interface1: "Wi-Fi", Interface2: "Ethernet"})
	if !result.Success() {
		t.Fatalf("Switch() failed: %v", result.Err)
	}
	if result.Disabled != "Wi-Fi" || result.Enabled != "Ethernet" {
		t.Errorf("Unexpected result %+v", result)
	}
	if !reflect.DeepEqual(ctrl.calls, []string{"disable Wi-Fi", "enable Ethernet"}) {
		t.Errorf("Unexpected controller calls %v", ctrl.calls)
	}
	if store.nameA != "Wi-Fi" || store.nameB != "Ethernet" {
		t.Errorf("Expected selection to be saved, got %s/%s", store.nameA, store.nameB)
	}
	if result.Warning != nil {
		t.Errorf("Unexpected warning %v", result.Warning)
	}
}

func TestSwitch_SaveFailureIsWarning(t *testing.T) {
	store := &mockStore{saveErr: errors.New("disk full")}
	svc, _, _ := newTestService(store)

	result := svc.Switch(context.Background(), entities.Selection{Interface1: "Wi-Fi", Interface2: "Ethernet"})
	if !result.Success() {
		t.Fatalf("A save failure must not fail the switch: %v", result.Err)
	}
	if !errors.Is(result.Warning, entities.ErrPersistenceFailure) {
		t.Errorf("Expected persistence warning, got %v", result.Warning)
	}
}

func TestSwitch_FailureDoesNotSave(t *testing.T) {
	store := &mockStore{}
	svc, _, ctrl := newTestService(store)
	ctrl.enableErr = errors.New("exit status 1")

	result := svc.Switch(context.Background(), entities.Selection{Interface1: "Wi-Fi", Interface2: "Ethernet"})
	if !errors.Is(result.Err, entities.ErrActionFailure) {
		t.Fatalf("Expected action failure, got %v", result.Err)
	}
	if store.saves != 0 {
		t.Error("Selection must not be saved after a failed switch")
	}
}

func TestSwitch_InvalidSelection(t *testing.T) {
	svc, _, ctrl := newTestService(&mockStore{})

	result := svc.Switch(context.Background(), entities.Selection{Interface1: "Wi-Fi", Interface2: "Wi-Fi"})
	if !errors.Is(result.Err, entities.ErrInvalidSelection) {
		t.Errorf("Expected invalid selection, got %v", result.Err)
	}
	if len(ctrl.calls) != 0 {
		t.Errorf("No controller call expected, got %v", ctrl.calls)
	}
}

func TestSwitch_RejectsConcurrentCall(t *testing.T) {
	svc, dir, _ := newTestService(&mockStore{})
	dir.block = make(chan struct{})
	dir.entered = make(chan struct{})

	done := make(chan entities.ToggleResult)
	go func() {
		done <- svc.Switch(context.Background(), entities.Selection{Interface1: "Wi-Fi", Interface2: "Ethernet"})
	}()
	<-dir.entered

	if !svc.Busy() {
		t.Error("Expected service to be busy during a switch")
	}
	second := svc.Switch(context.Background(), entities.Selection{Interface1: "Wi-Fi", Interface2: "Ethernet"})
	if !errors.Is(second.Err, entities.ErrToggleInProgress) {
		t.Errorf("Expected ErrToggleInProgress, got %v", second.Err)
	}

	close(dir.block)
	if first := <-done; !first.Success() {
		t.Errorf("First switch failed: %v", first.Err)
	}
	if svc.Busy() {
		t.Error("Expected service to be idle after the switch")
	}
}

func TestSwitchStored(t *testing.T) {
	store := &mockStore{nameA: "Ethernet", nameB: "Wi-Fi"}
	svc, _, ctrl := newTestService(store)

	result := svc.SwitchStored(context.Background())
	if !result.Success() {
		t.Fatalf("SwitchStored() failed: %v", result.Err)
	}
	// Ethernet (interface1) is not connected: Wi-Fi goes down, Ethernet comes up
	if !reflect.DeepEqual(ctrl.calls, []string{"disable Wi-Fi", "enable Ethernet"}) {
		t.Errorf("Unexpected controller calls %v", ctrl.calls)
	}
}

func TestRestoreSelection(t *testing.T) {
	names := []string{"Wi-Fi", "Ethernet", "Ethernet 2"}

	tests := []struct {
		name     string
		stored   entities.Selection
		expected entities.Selection
	}{
		{"nothing stored", entities.Selection{}, entities.Selection{Interface1: "Wi-Fi", Interface2: "Ethernet"}},
		{"both listed", entities.Selection{Interface1: "Ethernet 2", Interface2: "Wi-Fi"}, entities.Selection{Interface1: "Ethernet 2", Interface2: "Wi-Fi"}},
		{"first missing", entities.Selection{Interface1: "USB LAN", Interface2: "Ethernet"}, entities.Selection{Interface1: "Wi-Fi", Interface2: "Ethernet"}},
		{"second missing", entities.Selection{Interface1: "Ethernet", Interface2: "USB LAN"}, entities.Selection{Interface1: "Ethernet", Interface2: "Wi-Fi"}},
		{"missing first collides with stored second", entities.Selection{Interface1: "USB LAN", Interface2: "Wi-Fi"}, entities.Selection{Interface1: "Ethernet", Interface2: "Wi-Fi"}},
		{"stored duplicate", entities.Selection{Interface1: "Ethernet", Interface2: "Ethernet"}, entities.Selection{Interface1: "Ethernet", Interface2: "Wi-Fi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := restoreSelection(names, tt.stored); got != tt.expected {
				t.Errorf("restoreSelection() = %+v, want %+v", got, tt.expected)
			}
		})
	}

	if got := restoreSelection([]string{"Wi-Fi"}, entities.Selection{}); got != (entities.Selection{Interface1: "Wi-Fi"}) {
		t.Errorf("Expected single adapter selection, got %+v", got)
	}
	if got := restoreSelection(nil, entities.Selection{Interface1: "Wi-Fi"}); !got.IsEmpty() {
		t.Errorf("Expected empty selection without adapters, got %+v", got)
	}
}

func TestRestoreSelection_LoadErrorUsesDefaults(t *testing.T) {
	svc, _, _ := newTestService(&mockStore{loadErr: errors.New("locked")})

	sel, err := svc.RestoreSelection(context.Background())
	if err != nil {
		t.Fatalf("RestoreSelection() error = %v", err)
	}
	if sel != (entities.Selection{Interface1: "Wi-Fi", Interface2: "Ethernet"}) {
		t.Errorf("Unexpected selection %+v", sel)
	}
}

func TestRestoreSelection_QueryError(t *testing.T) {
	svc, dir, _ := newTestService(&mockStore{})
	dir.listErr = errors.New("powershell not found")

	if _, err := svc.RestoreSelection(context.Background()); !errors.Is(err, entities.ErrQueryFailure) {
		t.Errorf("Expected query failure, got %v", err)
	}
}

func TestSaveSelection(t *testing.T) {
	store := &mockStore{}
	svc, _, ctrl := newTestService(store)

	if err := svc.SaveSelection(context.Background(), entities.Selection{Interface1: "Wi-Fi", Interface2: "Ethernet"}); err != nil {
		t.Fatalf("SaveSelection() error = %v", err)
	}
	if store.nameA != "Wi-Fi" || store.nameB != "Ethernet" {
		t.Errorf("Unexpected stored selection %s/%s", store.nameA, store.nameB)
	}
	if len(ctrl.calls) != 0 {
		t.Error("Saving a selection must not toggle anything")
	}

	if err := svc.SaveSelection(context.Background(), entities.Selection{Interface1: "Wi-Fi"}); !errors.Is(err, entities.ErrInvalidSelection) {
		t.Errorf("Expected invalid selection, got %v", err)
	}

	store.saveErr = errors.New("access denied")
	if err := svc.SaveSelection(context.Background(), entities.Selection{Interface1: "Wi-Fi", Interface2: "Ethernet"}); !errors.Is(err, entities.ErrPersistenceFailure) {
		t.Errorf("Expected persistence failure, got %v", err)
	}
}

func TestAdapters(t *testing.T) {
	svc, dir, _ := newTestService(&mockStore{})

	adapters, err := svc.Adapters(context.Background())
	if err != nil {
		t.Fatalf("Adapters() error = %v", err)
	}
	if len(adapters) != 3 {
		t.Errorf("Expected 3 adapters, got %d", len(adapters))
	}

	dir.listErr = errors.New("boom")
	if _, err := svc.Adapters(context.Background()); !errors.Is(err, entities.ErrQueryFailure) {
		t.Errorf("Expected query failure, got %v", err)
	}
}

func TestStatus(t *testing.T) {
	svc, dir, _ := newTestService(&mockStore{})

	got := svc.Status(context.Background(), "Wi-Fi", "Ethernet", "USB LAN")
	expected := []entities.Adapter{
		{Name: "Wi-Fi", State: entities.AdapterConnected},
		{Name: "Ethernet", State: entities.AdapterNotConnected},
		{Name: "USB LAN", State: entities.AdapterUnknown},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Status() = %+v, want %+v", got, expected)
	}

	dir.listErr = errors.New("timeout")
	got = svc.Status(context.Background(), "Wi-Fi", "Ethernet")
	for _, a := range got {
		if a.State != entities.AdapterUnknown {
			t.Errorf("Expected unknown state on query error, got %+v", a)
		}
	}
}

func TestWatch(t *testing.T) {
	svc, _, _ := newTestService(&mockStore{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var reports [][]entities.Adapter
	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Watch(ctx, 10*time.Millisecond, []string{"Wi-Fi", "Ethernet"}, func(adapters []entities.Adapter) {
			mu.Lock()
			reports = append(reports, adapters)
			n := len(reports)
			mu.Unlock()
			if n == 3 {
				cancel()
			}
		})
	}()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reports) < 3 {
		t.Fatalf("Expected at least 3 reports, got %d", len(reports))
	}
	if reports[0][0].State != entities.AdapterConnected {
		t.Errorf("Unexpected first report %+v", reports[0])
	}
}

func TestWatch_SkipsWhileSwitching(t *testing.T) {
	svc, dir, _ := newTestService(&mockStore{})
	svc.switching.Store(true)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	reports := 0
	if err := svc.Watch(ctx, 5*time.Millisecond, []string{"Wi-Fi"}, func([]entities.Adapter) { reports++ }); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if reports != 1 {
		t.Errorf("Expected only the initial report while switching, got %d", reports)
	}
	if dir.listCalls != 1 {
		t.Errorf("Expected a single directory query, got %d", dir.listCalls)
	}
}

func TestWatch_NoNames(t *testing.T) {
	svc, _, _ := newTestService(&mockStore{})
	if err := svc.Watch(context.Background(), time.Second, nil, func([]entities.Adapter) {}); err == nil {
		t.Error("Expected error without adapters")
	}
}
