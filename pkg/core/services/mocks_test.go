package services

import (
	"context"
	"testing"
	"time"

	"github.com/oivas000/duty-roster/internal/config"
	"github.com/oivas000/duty-roster/pkg/clients/sheetsclient"
	"github.com/oivas000/duty-roster/pkg/core/model"
	"github.com/oivas000/duty-roster/pkg/db"
)

// mockStore implements every store interface used by the services
type mockStore struct {
	members      []db.Member
	availability []db.Availability
	weights      []db.Weight
	runs         []db.Run
	assignments  map[string][]db.RunAssignment

	savedWeights     []db.Weight
	committedRuns    int
	upsertedMembers  []db.Member
	upsertedAvail    []db.Availability
	upsertedWeights  []db.Weight
	getRunsCalls     int
	getRunsErr       error
	getWeightsErr    error
	commitRunErr     error
	saveWeightsErr   error
	upsertMembersErr error
}

func (m *mockStore) ListMembers(ctx context.Context) ([]db.Member, error) {
	return m.members, nil
}

func (m *mockStore) ListAvailability(ctx context.Context) ([]db.Availability, error) {
	return m.availability, nil
}

func (m *mockStore) UpsertMembers(ctx context.Context, members []db.Member, availability []db.Availability, weights []db.Weight) error {
	if m.upsertMembersErr != nil {
		return m.upsertMembersErr
	}
	m.upsertedMembers = members
	m.upsertedAvail = availability
	m.upsertedWeights = weights
	return nil
}

func (m *mockStore) GetWeights(ctx context.Context) ([]db.Weight, error) {
	if m.getWeightsErr != nil {
		return nil, m.getWeightsErr
	}
	return m.weights, nil
}

func (m *mockStore) SaveWeights(ctx context.Context, weights []db.Weight) error {
	if m.saveWeightsErr != nil {
		return m.saveWeightsErr
	}
	m.savedWeights = weights
	return nil
}

func (m *mockStore) GetRuns(ctx context.Context) ([]db.Run, error) {
	m.getRunsCalls++
	if m.getRunsErr != nil {
		return nil, m.getRunsErr
	}
	return m.runs, nil
}

func (m *mockStore) GetRunAssignments(ctx context.Context, runID string) ([]db.RunAssignment, error) {
	return m.assignments[runID], nil
}

func (m *mockStore) CommitRun(ctx context.Context, run *db.Run, assignments []db.RunAssignment, weights []db.Weight) error {
	if m.commitRunErr != nil {
		return m.commitRunErr
	}
	if m.assignments == nil {
		m.assignments = make(map[string][]db.RunAssignment)
	}
	m.runs = append(m.runs, *run)
	m.assignments[run.ID] = assignments
	m.savedWeights = weights
	m.weights = weights
	m.committedRuns++
	return nil
}

// mockRecorder captures metrics calls
type mockRecorder struct {
	outcomes    []string
	slots       int
	assignments map[string]int
	repairs     int
}

func (r *mockRecorder) RunFinished(outcome string, duration time.Duration) {
	r.outcomes = append(r.outcomes, outcome)
}

func (r *mockRecorder) SlotsFilled(count int) {
	r.slots += count
}

func (r *mockRecorder) RoleAssigned(role string, count int) {
	if r.assignments == nil {
		r.assignments = make(map[string]int)
	}
	r.assignments[role] += count
}

func (r *mockRecorder) RepairFinished(passes, swaps, unresolved int) {
	r.repairs++
}

// mockPublisher records published rosters
type mockPublisher struct {
	spreadsheetID string
	roster        *sheetsclient.PublishedRoster
	err           error
}

func (p *mockPublisher) PublishRoster(ctx context.Context, spreadsheetID string, roster *sheetsclient.PublishedRoster) error {
	if p.err != nil {
		return p.err
	}
	p.spreadsheetID = spreadsheetID
	p.roster = roster
	return nil
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Output.Directory = t.TempDir()
	return cfg
}

// newTestStore holds members 1..count, each available for every slot kind
func newTestStore(count int) *mockStore {
	store := &mockStore{}
	for id := 1; id <= count; id++ {
		store.members = append(store.members, db.Member{ID: id, Name: memberName(id)})
		for _, kind := range model.AllSlotKinds() {
			store.availability = append(store.availability, db.Availability{MemberID: id, Slot: kind.Code()})
		}
	}
	return store
}

func memberName(id int) string {
	names := []string{"Anna", "Binu", "Cyril", "Deepa", "Elsa", "Fr. George", "Hanna", "Ivan"}
	return names[(id-1)%len(names)]
}
