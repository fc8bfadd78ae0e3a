package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	gsheets "google.golang.org/api/sheets/v4"
)

// MemoryBackend keeps tabs in process memory. It is used for local
// development (SHEETS_BACKEND=memory) and tests. Formula cells are stored
// as written and read back empty.
type MemoryBackend struct {
	mu       sync.Mutex
	nextID   int64
	order    []string
	tabs     map[string]*memoryTab
	requests []*gsheets.Request
}

type memoryTab struct {
	id   int64
	rows [][]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{tabs: make(map[string]*memoryTab)}
}

func (m *MemoryBackend) TabNames(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...), nil
}

func (m *MemoryBackend) AddTab(ctx context.Context, title string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tabs[title]; exists {
		return 0, fmt.Errorf("a sheet with the name %q already exists", title)
	}
	m.nextID++
	m.tabs[title] = &memoryTab{id: m.nextID}
	m.order = append(m.order, title)
	return m.nextID, nil
}

func (m *MemoryBackend) SheetID(ctx context.Context, title string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, ok := m.tabs[title]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrTabNotFound, title)
	}
	return tab.id, nil
}

func (m *MemoryBackend) ReadRange(ctx context.Context, a1 string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, ref, err := m.resolve(a1)
	if err != nil {
		return nil, err
	}

	first := max(ref.startRow, 1)
	last := len(tab.rows)
	if ref.endRow > 0 {
		last = min(ref.endRow, last)
	}

	var out [][]string
	for r := first; r <= last; r++ {
		row := tab.rows[r-1]
		var cells []string
		for c := ref.startCol; c < len(row) && (ref.endCol < 0 || c <= ref.endCol); c++ {
			value := row[c]
			switch {
			case strings.HasPrefix(value, "'"):
				// A leading apostrophe forces text on user-entered input and is not displayed.
				value = value[1:]
			case strings.HasPrefix(value, "="):
				value = ""
			}
			cells = append(cells, value)
		}
		out = append(out, trimTrailing(cells))
	}

	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *MemoryBackend) WriteRange(ctx context.Context, a1 string, rows [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, ref, err := m.resolve(a1)
	if err != nil {
		return err
	}

	start := max(ref.startRow, 1)
	for i, values := range rows {
		tab.put(start+i, ref.startCol, values)
	}
	return nil
}

func (m *MemoryBackend) AppendRows(ctx context.Context, a1 string, rows [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, ref, err := m.resolve(a1)
	if err != nil {
		return err
	}

	last := len(tab.rows)
	for last > 0 && len(trimTrailing(tab.rows[last-1])) == 0 {
		last--
	}
	for i, values := range rows {
		tab.put(last+1+i, ref.startCol, values)
	}
	return nil
}

func (m *MemoryBackend) Format(ctx context.Context, requests []*gsheets.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, requests...)
	return nil
}

// FormatRequests returns every formatting request applied so far.
func (m *MemoryBackend) FormatRequests() []*gsheets.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*gsheets.Request(nil), m.requests...)
}

func (m *MemoryBackend) resolve(a1 string) (*memoryTab, cellRef, error) {
	title, ref, err := parseA1(a1)
	if err != nil {
		return nil, cellRef{}, err
	}
	tab, ok := m.tabs[title]
	if !ok {
		return nil, cellRef{}, fmt.Errorf("%w: unable to parse range: %s", ErrTabNotFound, a1)
	}
	return tab, ref, nil
}

func (t *memoryTab) put(row, col int, values []any) {
	for len(t.rows) < row {
		t.rows = append(t.rows, nil)
	}
	cells := t.rows[row-1]
	for len(cells) < col+len(values) {
		cells = append(cells, "")
	}
	for i, v := range values {
		cells[col+i] = fmt.Sprint(v)
	}
	t.rows[row-1] = cells
}

func trimTrailing(cells []string) []string {
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// cellRef is a parsed A1 cell span. Rows are 1-based and zero means
// unbounded; columns are 0-based and endCol -1 means unbounded.
type cellRef struct {
	startCol, endCol int
	startRow, endRow int
}

func parseA1(a1 string) (string, cellRef, error) {
	idx := strings.LastIndex(a1, "!")
	if idx < 0 {
		return a1, cellRef{endCol: -1}, nil
	}

	title := a1[:idx]
	if strings.HasPrefix(title, "'") && strings.HasSuffix(title, "'") && len(title) >= 2 {
		title = strings.ReplaceAll(title[1:len(title)-1], "''", "'")
	}

	start, end, hasEnd := strings.Cut(a1[idx+1:], ":")
	ref := cellRef{endCol: -1}

	col, row, err := parseCell(start)
	if err != nil {
		return "", ref, fmt.Errorf("invalid range %q: %w", a1, err)
	}
	ref.startCol, ref.startRow = max(col, 0), row
	ref.endCol, ref.endRow = col, row

	if hasEnd {
		col, row, err = parseCell(end)
		if err != nil {
			return "", ref, fmt.Errorf("invalid range %q: %w", a1, err)
		}
		ref.endCol, ref.endRow = col, row
	}
	return title, ref, nil
}

// parseCell splits "AB12" into column 27 and row 12. A bare column yields
// row 0, a bare row yields column -1.
func parseCell(cell string) (int, int, error) {
	col := 0
	i := 0
	for ; i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z'; i++ {
		col = col*26 + int(cell[i]-'A'+1)
	}

	row := 0
	if i < len(cell) {
		n, err := strconv.Atoi(cell[i:])
		if err != nil || n < 1 {
			return 0, 0, fmt.Errorf("bad cell %q", cell)
		}
		row = n
	}
	if i == 0 && row == 0 {
		return 0, 0, fmt.Errorf("bad cell %q", cell)
	}
	return col - 1, row, nil
}
