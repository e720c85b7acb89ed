package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/pkg/core/model"
	"github.com/oivas000/duty-roster/pkg/db"
)

func TestListMembers(t *testing.T) {
	store := &mockStore{
		members: []db.Member{{ID: 1, Name: "Anna"}, {ID: 2, Name: "Binu"}},
		availability: []db.Availability{
			{MemberID: 1, Slot: "u3"},
			{MemberID: 1, Slot: "m1"},
			{MemberID: 2, Slot: "w2"},
			{MemberID: 9, Slot: "m1"},
			{MemberID: 2, Slot: "z9"},
		},
		weights: []db.Weight{{MemberID: 2, Role: "I", Weight: 0}},
	}

	summaries, err := ListMembers(context.Background(), store, testConfig(t), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, model.Member{ID: 1, Name: "Anna"}, summaries[0].Member)
	assert.Equal(t, []model.SlotKind{
		{Weekday: model.Monday, Timeslot: model.TimeslotEarly},
		{Weekday: model.Sunday, Timeslot: model.TimeslotEvening},
	}, summaries[0].Slots)
	assert.Equal(t, map[model.Role]int{"B": 100, "R": 100, "I": 100}, summaries[0].Weights)

	assert.Equal(t, []model.SlotKind{{Weekday: model.Wednesday, Timeslot: model.TimeslotLate}}, summaries[1].Slots)
	assert.Equal(t, 0, summaries[1].Weights["I"])
}

const memberCSV = `id,name,m1,m2,u3,B,I
1,Anna,1,0,yes,,
2,Binu,,x,0,0,50
`

func TestImportMembers(t *testing.T) {
	records, err := ReadMemberRecords(strings.NewReader(memberCSV))
	require.NoError(t, err)

	store := &mockStore{}
	result, err := ImportMembers(context.Background(), store, testConfig(t), zap.NewNop(), records)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Members)
	assert.Equal(t, 3, result.Availability)

	assert.Equal(t, []db.Member{{ID: 1, Name: "Anna"}, {ID: 2, Name: "Binu"}}, store.upsertedMembers)
	assert.Equal(t, []db.Availability{
		{MemberID: 1, Slot: "m1"},
		{MemberID: 1, Slot: "u3"},
		{MemberID: 2, Slot: "m2"},
	}, store.upsertedAvail)
	assert.Equal(t, []db.Weight{
		{MemberID: 1, Role: "B", Weight: 100},
		{MemberID: 1, Role: "R", Weight: 100},
		{MemberID: 1, Role: "I", Weight: 100},
		{MemberID: 2, Role: "B", Weight: 0},
		{MemberID: 2, Role: "R", Weight: 100},
		{MemberID: 2, Role: "I", Weight: 50},
	}, store.upsertedWeights)
}

func TestImportMembers_Errors(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		wantErr string
	}{
		{
			name:    "header only",
			records: [][]string{{"id", "name"}},
			wantErr: "at least one member",
		},
		{
			name:    "missing name column",
			records: [][]string{{"id", "m1"}, {"1", "1"}},
			wantErr: "must contain id and name",
		},
		{
			name:    "unknown column",
			records: [][]string{{"id", "name", "email"}, {"1", "Anna", "a@b"}},
			wantErr: `unknown member table column "email"`,
		},
		{
			name:    "invalid id",
			records: [][]string{{"id", "name"}, {"one", "Anna"}},
			wantErr: "row 2: invalid member id",
		},
		{
			name:    "duplicate id",
			records: [][]string{{"id", "name"}, {"1", "Anna"}, {"1", "Binu"}},
			wantErr: "row 3: duplicate member id 1",
		},
		{
			name:    "missing name",
			records: [][]string{{"id", "name"}, {"1", ""}},
			wantErr: "has no name",
		},
		{
			name:    "invalid flag",
			records: [][]string{{"id", "name", "t2"}, {"1", "Anna", "maybe"}},
			wantErr: "column t2",
		},
		{
			name:    "negative weight",
			records: [][]string{{"id", "name", "R"}, {"1", "Anna", "-5"}},
			wantErr: "invalid R weight",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStore{}
			_, err := ImportMembers(context.Background(), store, testConfig(t), zap.NewNop(), tt.records)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, store.upsertedMembers)
		})
	}
}

func TestImportMembers_StoreError(t *testing.T) {
	store := &mockStore{upsertMembersErr: errors.New("readonly")}

	_, err := ImportMembers(context.Background(), store, testConfig(t), zap.NewNop(), [][]string{{"id", "name"}, {"1", "Anna"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store members")
}
