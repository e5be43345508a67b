package logging

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/varspace/varspace-go/pkg/config"
)

type MockOutput struct {
	entries []LogEntry
	mu      sync.Mutex
	closed  bool
}

func NewMockOutput() *MockOutput {
	return &MockOutput{
		entries: make([]LogEntry, 0),
	}
}

func (m *MockOutput) Write(entry LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("output is closed")
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockOutput) Sync() error {
	return nil
}

func (m *MockOutput) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockOutput) GetEntries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries
}

func TestNewLogger(t *testing.T) {
	mockOutput := NewMockOutput()
	defaultFields := map[string]interface{}{
		"service": "test",
		"version": "1.0",
	}

	cfg := Config{
		Severity:      INFO,
		Outputs:       []Output{mockOutput},
		DefaultFields: defaultFields,
	}

	logger := NewLogger(cfg)

	assert.Equal(t, INFO, logger.severity)
	assert.Equal(t, defaultFields, logger.fields)
}

func TestSeverityFiltering(t *testing.T) {
	mockOutput := NewMockOutput()
	logger := NewLogger(Config{
		Severity: WARN,
		Outputs:  []Output{mockOutput},
	})

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	entries := mockOutput.GetEntries()
	assert.Len(t, entries, 2)
	assert.Equal(t, WARN, entries[0].Severity)
	assert.Equal(t, ERROR, entries[1].Severity)
}

func TestNodeUIDContext(t *testing.T) {
	mockOutput := NewMockOutput()
	logger := NewLogger(Config{
		Severity: DEBUG,
		Outputs:  []Output{mockOutput},
	})

	ctx := WithNodeUID(context.Background(), "node-123")
	logger.Info(ctx, "converted candidate")

	entries := mockOutput.GetEntries()
	assert.Len(t, entries, 1)
	assert.Equal(t, "node-123", entries[0].NodeUID)

	uid, ok := GetNodeUID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "node-123", uid)

	_, ok = GetNodeUID(context.Background())
	assert.False(t, ok)
}

func TestDefaultFields(t *testing.T) {
	mockOutput := NewMockOutput()
	logger := NewLogger(Config{
		Severity:      DEBUG,
		Outputs:       []Output{mockOutput},
		DefaultFields: map[string]interface{}{"component": "params"},
	})

	logger.Info(context.Background(), "message")

	entries := mockOutput.GetEntries()
	assert.Len(t, entries, 1)
	assert.Equal(t, "params", entries[0].Fields["component"])
}

func TestGlobalLogger(t *testing.T) {
	// Test default logger creation
	logger1 := GetLogger()
	assert.NotNil(t, logger1)

	// Test setting custom logger
	mockOutput := NewMockOutput()
	customLogger := NewLogger(Config{
		Severity: DEBUG,
		Outputs:  []Output{mockOutput},
	})
	SetLogger(customLogger)

	logger2 := GetLogger()
	assert.Equal(t, customLogger, logger2)
}

func TestNewLoggerFromConfig(t *testing.T) {
	logger := NewLoggerFromConfig(config.LoggingConfig{Level: "ERROR", UseStderr: true})
	assert.Equal(t, ERROR, logger.severity)
	assert.Len(t, logger.outputs, 1)

	// Empty level falls back to INFO via ParseSeverity
	logger = NewLoggerFromConfig(config.LoggingConfig{})
	assert.Equal(t, INFO, logger.severity)
}

func TestConcurrentLogging(t *testing.T) {
	mockOutput := NewMockOutput()
	logger := NewLogger(Config{
		Severity: DEBUG,
		Outputs:  []Output{mockOutput},
	})

	var wg sync.WaitGroup
	numGoroutines := 50

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Info(context.Background(), "message %d", n)
		}(i)
	}
	wg.Wait()

	assert.Len(t, mockOutput.GetEntries(), numGoroutines)
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input    string
		expected Severity
	}{
		{"DEBUG", DEBUG},
		{"INFO", INFO},
		{"WARN", WARN},
		{"ERROR", ERROR},
		{"FATAL", FATAL},
		{"bogus", INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSeverity(tt.input))
			if tt.input != "bogus" {
				assert.Equal(t, tt.input, tt.expected.String())
			}
		})
	}
}
