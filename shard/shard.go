// Package shard implements the on-disk formats the generator writes and
// the searcher reads: per-worker shard files of fixed-width
// (start,end) password records, and the mem.txt checkpoint file.
package shard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/WanisC/arc-en-ciel/password"
)

// FileName returns the path of worker i's shard file under dir.
func FileName(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("shard_%d.txt", i))
}

// MemoryFileName returns the path of the checkpoint file under dir.
func MemoryFileName(dir string) string {
	return filepath.Join(dir, "mem.txt")
}

// Writer appends (start, end) records to a single shard file, in the
// fixed-width "start∥end\n" format with no separator between the two
// passwords.
type Writer struct {
	f *os.File
}

// CreateWriter opens (creating if necessary) worker i's shard file for
// appending.
func CreateWriter(dir string, i int) (*Writer, error) {
	f, err := os.OpenFile(FileName(dir, i), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("shard: opening shard %d: %w", i, err)
	}
	return &Writer{f: f}, nil
}

// Append writes one (start, end) record. The caller is responsible for
// ensuring start and end share the table's fixed password length.
func (w *Writer) Append(start, end password.Password) error {
	_, err := w.f.WriteString(start.String() + end.String() + "\n")
	return err
}

// Flush fsyncs the shard file so a record survives a crash immediately
// after this call returns — required before a worker that has observed
// cancellation writes its memory-file checkpoint line, so the shard and
// the checkpoint never disagree about what was actually persisted.
func (w *Writer) Flush() error {
	return w.f.Sync()
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}

// Reader provides cursor-free, positioned windowed reads over a
// read-only shard file, so that multiple searcher workers (or a single
// worker making successive window reads) never share a file cursor.
type Reader struct {
	f           *os.File
	recordWidth int
}

// OpenReader opens worker i's shard file read-only. recordWidth is
// 2*length+1, the fixed width of one "start∥end\n" record.
func OpenReader(dir string, i int, recordWidth int) (*Reader, error) {
	f, err := os.Open(FileName(dir, i))
	if err != nil {
		return nil, fmt.Errorf("shard: opening shard %d for read: %w", i, err)
	}
	return &Reader{f: f, recordWidth: recordWidth}, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// WindowRecords is the number of records read per window, per spec §4.6:
// chosen so the window size (2ℓ+1)·WindowRecords is an integer number
// of bytes and an integer number of records.
const WindowRecords = 100_000

// ReadWindow reads the window starting at byte offset off and returns
// its decoded (start, end) records as a map from end password to start
// password — ready for §4.5.2's endpoint lookup. When several records in
// the window share an end password, the map holds the first of them and
// the later starts are not returned. It reports io.EOF-style
// completion by returning zero records read without an error once off
// is at or past the end of the file.
func (r *Reader) ReadWindow(off int64, length int) (map[password.Password]password.Password, int, error) {
	windowSize := r.recordWidth * WindowRecords
	buf := make([]byte, windowSize)
	n, err := r.f.ReadAt(buf, off)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("shard: reading window at %d: %w", off, err)
		}
		return nil, 0, nil
	}
	buf = buf[:n]
	lines := strings.Split(string(buf), "\n")
	// A partial trailing record (because n < windowSize, at EOF) or the
	// final empty split produced by the trailing newline must both be
	// dropped.
	if len(lines) > 0 && len(lines[len(lines)-1]) != 2*length {
		lines = lines[:len(lines)-1]
	}
	out := make(map[password.Password]password.Password, len(lines))
	for _, line := range lines {
		if len(line) != 2*length {
			continue
		}
		start := password.Password(line[:length])
		end := password.Password(line[length:])
		if _, dup := out[end]; !dup {
			out[end] = start
		}
	}
	return out, len(lines), nil
}

// Memory reads and writes the mem.txt checkpoint file.
type Memory struct {
	mu sync.Mutex
	f  *os.File
}

// CreateMemory opens (creating/truncating) mem.txt under dir for the
// generator to append one checkpoint line per worker.
func CreateMemory(dir string) (*Memory, error) {
	f, err := os.OpenFile(MemoryFileName(dir), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("shard: creating memory file: %w", err)
	}
	return &Memory{f: f}, nil
}

// WriteLine appends one worker's checkpoint password, guarded by a
// mutex so concurrent workers' single-line writes never interleave —
// the coarse-but-correct approach the spec calls out in §9, justified
// here because each worker writes exactly one line.
func (m *Memory) WriteLine(p password.Password) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.f.WriteString(p.String() + "\n")
	return err
}

// Close fsyncs and closes the memory file.
func (m *Memory) Close() error {
	if err := m.f.Sync(); err != nil {
		m.f.Close()
		return err
	}
	return m.f.Close()
}

// LoadMemory reads mem.txt under dir, sorts its entries ascending under
// the alphabet ordering, and returns them as the next start password
// for each worker (positionally, after sorting, per spec §4.4/§5).
// It reports (nil, false, nil) if use_memory's on-disk precondition
// (existing, non-empty mem.txt) doesn't hold, in which case the caller
// falls back to the default seeds (the all-zero password plus the
// worker index).
func LoadMemory(dir string) ([]password.Password, bool, error) {
	path := MemoryFileName(dir)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("shard: statting memory file: %w", err)
	}
	if info.Size() == 0 {
		return nil, false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("shard: opening memory file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("shard: reading memory file: %w", err)
	}
	if len(lines) == 0 {
		return nil, false, nil
	}

	out := make([]password.Password, len(lines))
	for i, l := range lines {
		p, err := password.New(l)
		if err != nil {
			return nil, false, fmt.Errorf("shard: memory file line %d: %w", i, err)
		}
		out[i] = p
	}
	// Sort under the alphabet's ordering, not raw ASCII byte order: '!'
	// and '*' sort after 'z' here, whereas ASCII puts them before '0'.
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out, true, nil
}
