package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/orbitsim/internal/quantity"
	"github.com/san-kum/orbitsim/internal/sim"
)

func snapshot(step int) sim.Snapshot {
	f := float64(step)
	return sim.Snapshot{
		Name: "test",
		Step: step,
		Time: 60 * f,
		Bodies: []sim.BodyState{
			{Name: "Sun", Position: quantity.Origin},
			{Name: "Earth", Position: quantity.NewPoint(1.496e11, f*1e6, 0), Velocity: quantity.NewVector(0, 29780.5, 0)},
		},
	}
}

func record(every, steps int) *Trajectory {
	r := NewRecorder(every)
	r.Record(snapshot(0))
	for i := 1; i <= steps; i++ {
		r.OnTick(snapshot(i))
	}
	return r.Trajectory()
}

func TestRecorderSamples(t *testing.T) {
	tr := record(3, 10)

	if len(tr.Samples) != 4 {
		t.Fatalf("expected 4 samples (0,3,6,9), got %d", len(tr.Samples))
	}
	if tr.Samples[3].Step != 9 {
		t.Errorf("expected last step 9, got %d", tr.Samples[3].Step)
	}
	if strings.Join(tr.Bodies, ",") != "Sun,Earth" {
		t.Errorf("unexpected bodies %v", tr.Bodies)
	}

	track := tr.Track("Earth")
	if len(track) != 4 || track[2].Y != 6e6 {
		t.Errorf("unexpected track %v", track)
	}
	if tr.Track("Moon") != nil {
		t.Error("expected nil track for unknown body")
	}
	if times := tr.Times(); times[1] != 180 {
		t.Errorf("expected time 180, got %f", times[1])
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tr := record(1, 5)
	runID, err := st.Save(RunMetadata{
		Scenario: "test",
		Source:   "preset:solar",
		Checksum: Checksum([]byte("Earth:\n")),
		Dt:       60,
		Steps:    5,
		Metrics:  map[string]float64{"energy_drift": 1e-9},
	}, tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "test" || meta.Steps != 5 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["energy_drift"] != 1e-9 {
		t.Errorf("expected drift 1e-9, got %g", meta.Metrics["energy_drift"])
	}
	if strings.Join(meta.Bodies, ",") != "Sun,Earth" {
		t.Errorf("expected bodies from trajectory, got %v", meta.Bodies)
	}
	if meta.Timestamp.IsZero() {
		t.Error("expected timestamp")
	}

	loaded, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(loaded.Samples) != len(tr.Samples) {
		t.Fatalf("expected %d samples, got %d", len(tr.Samples), len(loaded.Samples))
	}
	for i := range tr.Samples {
		if loaded.Samples[i].Step != tr.Samples[i].Step || loaded.Samples[i].Time != tr.Samples[i].Time {
			t.Errorf("sample %d header mismatch", i)
		}
		for j := range tr.Bodies {
			if loaded.Samples[i].Positions[j] != tr.Samples[i].Positions[j] {
				t.Errorf("sample %d body %d position mismatch", i, j)
			}
			if loaded.Samples[i].Velocities[j] != tr.Samples[i].Velocities[j] {
				t.Errorf("sample %d body %d velocity mismatch", i, j)
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	tr := record(1, 1)

	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := st.Save(RunMetadata{ID: "old", Timestamp: old}, tr); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(RunMetadata{ID: "new", Timestamp: old.Add(time.Hour)}, tr); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(st.baseDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" || runs[1].ID != "old" {
		t.Errorf("unexpected runs %+v", runs)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "none")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadTrajectory("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if err := st.ExportJSON(&bytes.Buffer{}, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestLoadTrajectoryCorrupt(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{}, record(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(st.baseDir, runID, trajectoryFile)
	bad := "step,time,body,x,y,z,vx,vy,vz\n0,0,Sun,a,0,0,0,0,0\n"
	if err := os.WriteFile(path, []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadTrajectory(runID); !errors.Is(err, ErrCorruptTrajectory) {
		t.Errorf("expected ErrCorruptTrajectory, got %v", err)
	}
}

func TestStoreDuplicateBodyNames(t *testing.T) {
	r := NewRecorder(1)
	for step := 0; step <= 2; step++ {
		f := float64(step)
		r.Record(sim.Snapshot{
			Step: step,
			Time: 60 * f,
			Bodies: []sim.BodyState{
				{Name: "Rock", Position: quantity.NewPoint(-1e6, f, 0)},
				{Name: "Rock", Position: quantity.NewPoint(1e6, -f, 0)},
			},
		})
	}
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{}, r.Trajectory())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	tr, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if strings.Join(tr.Bodies, ",") != "Rock,Rock" {
		t.Fatalf("expected two Rock bodies, got %v", tr.Bodies)
	}
	if len(tr.Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(tr.Samples))
	}
	first, second := tr.TrackAt(0), tr.TrackAt(1)
	if first[2].X != -1e6 || first[2].Y != 2 {
		t.Errorf("unexpected first track %v", first)
	}
	if second[2].X != 1e6 || second[2].Y != -2 {
		t.Errorf("unexpected second track %v", second)
	}
	if tr.TrackAt(2) != nil {
		t.Error("expected nil track past the last body")
	}
}

func TestLoadTrajectoryBodyOrder(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{}, record(1, 1))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(st.baseDir, runID, trajectoryFile)
	swapped := "step,time,body,x,y,z,vx,vy,vz\n" +
		"0,0,Sun,0,0,0,0,0,0\n0,0,Earth,1,0,0,0,0,0\n" +
		"1,60,Earth,1,0,0,0,0,0\n1,60,Sun,0,0,0,0,0,0\n"
	if err := os.WriteFile(path, []byte(swapped), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadTrajectory(runID); !errors.Is(err, ErrCorruptTrajectory) {
		t.Errorf("expected ErrCorruptTrajectory, got %v", err)
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Scenario: "exported"}, record(2, 4))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Metadata.Scenario != "exported" || len(data.Trajectory.Samples) != 3 {
		t.Errorf("unexpected export %+v", data)
	}

	buf.Reset()
	if err := st.ExportCSV(&buf, runID); err != nil {
		t.Fatalf("csv export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1+3*2 {
		t.Errorf("expected 7 csv lines, got %d", len(lines))
	}
}

func TestChecksum(t *testing.T) {
	a := Checksum([]byte("Earth:\n"))
	if len(a) != 16 {
		t.Errorf("expected 16 hex digits, got %q", a)
	}
	if a != Checksum([]byte("Earth:\n")) {
		t.Error("checksum not stable")
	}
	if a == Checksum([]byte("Mars:\n")) {
		t.Error("checksum collision")
	}
}
