package naming

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Due Date!", "DueDate"},
		{"Tasks", "Tasks"},
		{"open tasks", "opentasks"},
		{"user_profiles", "user_profiles"},
		{"Café Orders", "CafOrders"},
		{"2024 Plans", "2024Plans"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToType(tt.input))
		})
	}
}

func TestToField(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Due Date!", "dueDate"},
		{"Name", "name"},
		{"first_name", "firstName"},
		{"__private", "private"},
		{"URL", "url"},
		{"HTMLParser", "htmlParser"},
		{"userID", "userId"},
		{"Item2name", "item2Name"},
		{"2024 Plans", "2024Plans"},
		{"a", "a"},
		{"A", "a"},
		{"Open Tasks", "openTasks"},
		{"% Complete", "complete"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToField(tt.input))
		})
	}
}

func TestToField_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "dueDate", ToField("Due Date!"))
	}
}

func TestSingularNames(t *testing.T) {
	namer := Default()

	tests := []struct {
		table         string
		expectedType  string
		expectedField string
	}{
		{"Tasks", "Task", "task"},
		{"Open Tasks", "OpenTask", "openTask"},
		{"People", "Person", "person"},
		{"Categories", "Category", "category"},
		{"Status", "Status", "status"},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.expectedType, namer.SingularType(tt.table))
			assert.Equal(t, tt.expectedField, namer.SingularField(tt.table))
		})
	}
}

func TestSingularize(t *testing.T) {
	namer := Default()

	tests := []struct {
		input    string
		expected string
	}{
		{"users", "user"},
		{"categories", "category"},
		{"people", "person"},
		{"children", "child"},
		{"statuses", "status"},
		{"analyses", "analysis"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, namer.Singularize(tt.input))
		})
	}
}

func TestSingularizeWithOverrides(t *testing.T) {
	cfg := Config{
		SingularOverrides: map[string]string{
			"Data": "Datum",
		},
	}
	namer := New(cfg, nil)

	assert.Equal(t, "Datum", namer.SingularType("Data"))
	assert.Equal(t, "user", namer.Singularize("users")) // Falls back to library
}

func TestObserveType_CollisionIsReportedNotResolved(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	namer := New(DefaultConfig(), logger)

	namer.ObserveType(ToType("Tasks"), "Tasks")
	namer.ObserveType(ToType("Tasks!"), "Tasks!")

	assert.Equal(t, 1, namer.Collisions())
	assert.Contains(t, buf.String(), "naming collision detected")
	assert.Contains(t, buf.String(), "table:Tasks!")
}

func TestObserveField_SameSourceIsNotACollision(t *testing.T) {
	namer := New(DefaultConfig(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	namer.ObserveField("Tasks", "name", "column:Name")
	namer.ObserveField("Tasks", "name", "column:Name")
	namer.ObserveField("People", "name", "column:Name")

	assert.Equal(t, 0, namer.Collisions())
}

func TestObserveField_Collision(t *testing.T) {
	var buf bytes.Buffer
	namer := New(DefaultConfig(), slog.New(slog.NewTextHandler(&buf, nil)))

	namer.ObserveField("Tasks", ToField("Due Date"), "column:Due Date")
	namer.ObserveField("Tasks", ToField("Due-Date"), "column:Due-Date")

	assert.Equal(t, 1, namer.Collisions())
	assert.True(t, namer.resolver.FieldExists("Tasks", "dueDate"))
}

func TestObserveType_WarnsOnUnusableName(t *testing.T) {
	tests := []struct {
		table string
		warn  bool
	}{
		{"Tasks", false},
		{"2024 Plans", true},
		{"!!!", true},
		{"String", true},
		{"query_root", true},
		{"airtable_attachment", true},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			var buf bytes.Buffer
			namer := New(DefaultConfig(), slog.New(slog.NewTextHandler(&buf, nil)))
			namer.ObserveType(ToType(tt.table), tt.table)
			if tt.warn {
				assert.Contains(t, buf.String(), "unusable GraphQL type name")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestReset(t *testing.T) {
	namer := New(DefaultConfig(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	namer.ObserveType("Tasks", "Tasks")
	namer.ObserveType("Tasks", "Tasks!")
	assert.Equal(t, 1, namer.Collisions())

	namer.Reset()
	assert.Equal(t, 0, namer.Collisions())
	namer.ObserveType("Tasks", "Tasks!")
	assert.Equal(t, 0, namer.Collisions())
}
