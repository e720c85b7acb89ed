package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/oivas000/duty-roster/internal/config"
	"github.com/oivas000/duty-roster/pkg/core/model"
	"github.com/oivas000/duty-roster/pkg/db"
)

// MemberSummary is a member with its eligibility and current weights
type MemberSummary struct {
	Member  model.Member
	Slots   []model.SlotKind
	Weights map[model.Role]int
}

// ListMembersStore defines the database operations needed to list members
type ListMembersStore interface {
	ListMembers(ctx context.Context) ([]db.Member, error)
	ListAvailability(ctx context.Context) ([]db.Availability, error)
	GetWeights(ctx context.Context) ([]db.Weight, error)
}

// ListMembers returns every member ordered by id. Weights that have never
// been stored show the configured default.
func ListMembers(ctx context.Context, database ListMembersStore, cfg *config.Config, logger *zap.Logger) ([]MemberSummary, error) {
	members, err := database.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	availability, err := database.ListAvailability(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}

	weights, err := database.GetWeights(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weights: %w", err)
	}

	directory := newMemberDirectory(members, availability, logger)
	roles := roleDefinitions(cfg)
	l, _ := buildLedger(roles, directory.members, weights, cfg.Weights.Default)

	summaries := make([]MemberSummary, len(directory.members))
	for i, m := range directory.members {
		summaries[i] = MemberSummary{Member: m, Weights: make(map[model.Role]int, len(roles))}
		for _, def := range roles {
			summaries[i].Weights[def.Role] = l.Weight(def.Role, m.ID)
		}
	}

	index := make(map[model.MemberID]int, len(summaries))
	for i, s := range summaries {
		index[s.Member.ID] = i
	}
	for _, kind := range model.AllSlotKinds() {
		for _, id := range directory.ListEligible(kind) {
			summaries[index[id]].Slots = append(summaries[index[id]].Slots, kind)
		}
	}

	logger.Debug("Listed members", zap.Int("count", len(summaries)))

	return summaries, nil
}

// ImportMembersStore defines the database operations needed to import members
type ImportMembersStore interface {
	UpsertMembers(ctx context.Context, members []db.Member, availability []db.Availability, weights []db.Weight) error
}

// ImportMembersResult reports what an import stored
type ImportMembersResult struct {
	Members      int
	Availability int
}

// ReadMemberRecords reads a member table from CSV
func ReadMemberRecords(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read member csv: %w", err)
	}
	return records, nil
}

// ImportMembers stores a member table. The header row names the columns:
// "id" and "name" are required, slot columns ("m1" to "u3") mark eligibility
// and columns named after a role code set that member's initial weight (0
// pins the member out of the role). Existing members are renamed and their
// availability replaced; stored weights are never overwritten.
func ImportMembers(ctx context.Context, database ImportMembersStore, cfg *config.Config, logger *zap.Logger, records [][]string) (*ImportMembersResult, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("member table needs a header row and at least one member")
	}

	roles := model.RoleCodes(roleDefinitions(cfg))
	columns, err := parseMemberHeader(records[0], roles)
	if err != nil {
		return nil, err
	}

	var (
		members      []db.Member
		availability []db.Availability
		weights      []db.Weight
		seen         = make(map[int]bool)
	)

	for n, record := range records[1:] {
		line := n + 2
		cell := func(col int) string {
			if col < len(record) {
				return strings.TrimSpace(record[col])
			}
			return ""
		}

		id, err := strconv.Atoi(cell(columns.id))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("row %d: invalid member id %q", line, cell(columns.id))
		}
		if seen[id] {
			return nil, fmt.Errorf("row %d: duplicate member id %d", line, id)
		}
		seen[id] = true

		name := cell(columns.name)
		if name == "" {
			return nil, fmt.Errorf("row %d: member %d has no name", line, id)
		}
		members = append(members, db.Member{ID: id, Name: name})

		for _, sc := range columns.slots {
			available, err := parseFlag(cell(sc.col))
			if err != nil {
				return nil, fmt.Errorf("row %d: column %s: %w", line, sc.kind.Code(), err)
			}
			if available {
				availability = append(availability, db.Availability{MemberID: id, Slot: sc.kind.Code()})
			}
		}

		for _, role := range roles {
			weight := cfg.Weights.Default
			if col, ok := columns.roles[role]; ok && cell(col) != "" {
				weight, err = strconv.Atoi(cell(col))
				if err != nil || weight < 0 {
					return nil, fmt.Errorf("row %d: invalid %s weight %q", line, role, cell(col))
				}
			}
			weights = append(weights, db.Weight{MemberID: id, Role: string(role), Weight: weight})
		}
	}

	logger.Debug("Parsed member table",
		zap.Int("members", len(members)),
		zap.Int("availability", len(availability)))

	if err := database.UpsertMembers(ctx, members, availability, weights); err != nil {
		return nil, fmt.Errorf("failed to store members: %w", err)
	}

	logger.Info("Members imported", zap.Int("members", len(members)), zap.Int("availability", len(availability)))

	return &ImportMembersResult{Members: len(members), Availability: len(availability)}, nil
}

type slotColumn struct {
	kind model.SlotKind
	col  int
}

type memberColumns struct {
	id    int
	name  int
	slots []slotColumn
	roles map[model.Role]int
}

func parseMemberHeader(header []string, roles []model.Role) (*memberColumns, error) {
	columns := &memberColumns{id: -1, name: -1, roles: make(map[model.Role]int)}

	for col, raw := range header {
		title := strings.TrimSpace(raw)
		switch {
		case strings.EqualFold(title, "id"):
			columns.id = col
		case strings.EqualFold(title, "name"):
			columns.name = col
		case slices.Contains(roles, model.Role(title)):
			columns.roles[model.Role(title)] = col
		default:
			kind, err := model.ParseSlotKind(strings.ToLower(title))
			if err != nil {
				return nil, fmt.Errorf("unknown member table column %q", title)
			}
			columns.slots = append(columns.slots, slotColumn{kind: kind, col: col})
		}
	}

	if columns.id < 0 || columns.name < 0 {
		return nil, fmt.Errorf("member table header must contain id and name columns")
	}

	return columns, nil
}

// parseFlag reads an availability cell: 1/yes/true/x or 0/no/false/empty
func parseFlag(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "yes", "y", "true", "x":
		return true, nil
	case "", "0", "no", "n", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid availability flag %q", value)
}
