package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"pushbridge/models"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// fakeGateway records every call so tests can assert on the gateway call
// budget of each operation.
type fakeGateway struct {
	mu          sync.Mutex
	seq         int
	enabled     map[string]bool // endpoint arn -> enabled flag
	createCalls int
	queryCalls  int
	deleteCalls int
	published   []string // messages in publish order
	createErr   error
	queryErr    error
	publishErr  map[string]error
	emptyHandle bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		enabled:    make(map[string]bool),
		publishErr: make(map[string]error),
	}
}

func (f *fakeGateway) CreateEndpoint(_ context.Context, token, platform, appName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	if f.emptyHandle {
		return "", nil
	}
	f.seq++
	arn := fmt.Sprintf("arn:fake:endpoint/%d", f.seq)
	f.enabled[arn] = true
	return arn, nil
}

func (f *fakeGateway) EndpointEnabled(_ context.Context, endpoint string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	if f.queryErr != nil {
		return false, f.queryErr
	}
	return f.enabled[endpoint], nil
}

func (f *fakeGateway) DeleteEndpoint(_ context.Context, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	delete(f.enabled, endpoint)
	return nil
}

func (f *fakeGateway) Publish(_ context.Context, endpoint, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.publishErr[endpoint]; err != nil {
		return err
	}
	f.published = append(f.published, message)
	return nil
}

func (f *fakeGateway) publishedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

func (f *fakeGateway) publishedMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.published))
	copy(out, f.published)
	return out
}

func (f *fakeGateway) disableEndpoint(arn string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled[arn] = false
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	// one connection, or goroutines see separate empty :memory: databases
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.Subscription{}, &models.Notification{}); err != nil {
		t.Fatalf("automigrate failed: %v", err)
	}
	return db
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
