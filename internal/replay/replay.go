// Package replay re-runs logged resolution cycles against the live
// algorithm and reports any divergence. Selection is deterministic for
// an identical snapshot, so a mismatch means either a corrupted log or
// a behavior change since the log was written.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	addon "interact-nearest/addon"
	logres "interact-nearest/addon/logging/resolution"
)

// Mismatch records one invocation whose replayed selection differs
// from the logged one.
type Mismatch struct {
	Invocation     uint64
	RecordedID     string
	RecordedAction string
	ReplayedID     string
	ReplayedAction string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("invocation %d: recorded %s/%s, replayed %s/%s",
		m.Invocation, orNone(m.RecordedID), orNone(m.RecordedAction),
		orNone(m.ReplayedID), orNone(m.ReplayedAction))
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// Summary aggregates one verification run.
type Summary struct {
	Records    int
	Checked    int
	Skipped    int
	Mismatches []Mismatch
}

// ListLogFiles returns the diagnostics log files under dir, oldest
// first. Both plain and zstd-compressed NDJSON are accepted.
func ListLogFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".jsonl") || strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// ReadRecords decodes the resolution.invocation lines from one log
// file. Other event types and unparseable lines are skipped: logs from
// a crashed session may end mid-line.
func ReadRecords(path string) ([]logres.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer dec.Close()
		reader = dec
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var records []logres.Record
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var probe struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(line, &probe); err != nil {
			continue
		}
		if probe.Type != string(logres.EventInvocation) {
			continue
		}
		var record logres.Record
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Verify re-resolves every record under cfg and compares selections.
// Records whose cycle never reached resolution (provider failure,
// not-in-world) are skipped.
func Verify(cfg addon.Config, records []logres.Record) (Summary, error) {
	summary := Summary{Records: len(records)}
	for _, record := range records {
		payload := record.Payload
		switch payload.Outcome {
		case logres.OutcomeProviderFailed, logres.OutcomeNotInWorld:
			summary.Skipped++
			continue
		}

		resolution, err := addon.Resolve(cfg, snapshotFromPayload(payload))
		if err != nil {
			return summary, err
		}
		summary.Checked++

		replayedID, replayedAction := "", ""
		if resolution.Selected {
			replayedID = resolution.Entity.Identity
			replayedAction = string(resolution.Action)
		}
		if replayedID != payload.SelectedID || replayedAction != payload.Action {
			summary.Mismatches = append(summary.Mismatches, Mismatch{
				Invocation:     record.Invocation,
				RecordedID:     payload.SelectedID,
				RecordedAction: payload.Action,
				ReplayedID:     replayedID,
				ReplayedAction: replayedAction,
			})
		}
	}
	return summary, nil
}

func snapshotFromPayload(payload logres.InvocationPayload) addon.Snapshot {
	snap := addon.Snapshot{
		InWorld: true,
		Player:  addon.Position{X: payload.Player.X, Y: payload.Player.Y, Z: payload.Player.Z},
	}
	if len(payload.Candidates) > 0 {
		snap.Entities = make([]addon.Descriptor, 0, len(payload.Candidates))
		for _, c := range payload.Candidates {
			snap.Entities = append(snap.Entities, addon.Descriptor{
				Identity:         c.Identity,
				TemplateID:       c.TemplateID,
				Category:         addon.Category(c.Category),
				Position:         addon.Position{X: c.Position.X, Y: c.Position.Y, Z: c.Position.Z},
				Alive:            c.Alive,
				Lootable:         c.Lootable,
				Skinnable:        c.Skinnable,
				SummonedByPlayer: c.SummonedByPlayer,
			})
		}
	}
	return snap
}
