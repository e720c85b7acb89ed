package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/oivas000/duty-roster/pkg/core/model"
	"github.com/oivas000/duty-roster/pkg/core/repair"
	"github.com/oivas000/duty-roster/pkg/export"
	"github.com/oivas000/duty-roster/pkg/stats"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

const progressWidth = 30

// progressBar renders e.g. "[#####-----]  5/21 m1"
func progressBar(done, total int, label string) string {
	filled := 0
	if total > 0 {
		filled = done * progressWidth / total
	}
	return fmt.Sprintf("[%s%s] %2d/%d %s",
		strings.Repeat("#", filled),
		strings.Repeat("-", progressWidth-filled),
		done, total, label)
}

// progressPrinter redraws a progress bar in place on w
func progressPrinter(w io.Writer) func(done, total int, kind model.SlotKind) {
	return func(done, total int, kind model.SlotKind) {
		fmt.Fprintf(w, "\r%s", progressBar(done, total, kind.Code()))
		if done == total {
			fmt.Fprintln(w)
		}
	}
}

func nameOf(names map[model.MemberID]string, id model.MemberID) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

// printSchedule prints one line per timeslot with a column per role
func printSchedule(w io.Writer, s *model.Schedule, roles []model.RoleDefinition, timeslots []string, names map[model.MemberID]string) {
	colWidth := 16
	for _, name := range names {
		if len(name)+2 > colWidth {
			colWidth = len(name) + 2
		}
	}
	for _, def := range roles {
		if len(def.Name)+2 > colWidth {
			colWidth = len(def.Name) + 2
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", export.RosterTitle(s))

	fmt.Fprintf(w, "%-12s%-10s", "Date", "Time")
	for _, def := range roles {
		fmt.Fprintf(w, "%-*s", colWidth, def.Name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 22+colWidth*len(roles)))

	for _, ds := range s.Days {
		for ts, a := range ds.Slots {
			date := ""
			if ts == 0 {
				date = ds.Day.Date.Format("Mon 02 Jan")
			}
			fmt.Fprintf(w, "%-12s%-10s", date, timeslots[ts])
			for _, id := range a {
				fmt.Fprintf(w, "%-*s", colWidth, nameOf(names, id))
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)
}

// describePosition renders e.g. "Tue 04 Mar 6:00 am as B"
func describePosition(s *model.Schedule, p model.Position, timeslots []string) string {
	return fmt.Sprintf("%s %s as %s",
		s.Date(p).Format("Mon 02 Jan"),
		timeslots[p.Timeslot],
		s.Roles[p.RoleIndex])
}

// printConflicts lists the repetitions the repair engine could not remove
func printConflicts(w io.Writer, conflicts []repair.Conflict, s *model.Schedule, timeslots []string, names map[model.MemberID]string) {
	if len(conflicts) == 0 {
		fmt.Fprintf(w, "%s✓ No repetitions left in the roster%s\n\n", colorGreen, colorReset)
		return
	}

	fmt.Fprintf(w, "%s⚠️  %d repetitions could not be removed:%s\n", colorYellow, len(conflicts), colorReset)
	for _, c := range conflicts {
		fmt.Fprintf(w, "  %-10s %s: %s and %s\n",
			c.Kind,
			nameOf(names, c.Member),
			describePosition(s, c.First, timeslots),
			describePosition(s, c.Second, timeslots))
	}
	fmt.Fprintln(w)
}

// printReport prints the frequency summary of each role
func printReport(w io.Writer, report *stats.Report) {
	for _, role := range report.Roles {
		fmt.Fprintf(w, "\n%s (%s)\n", role.RoleName, role.Role)
		fmt.Fprintln(w, strings.Repeat("-", 40))

		fmt.Fprintln(w, "Most assigned:")
		for _, c := range role.Most {
			fmt.Fprintf(w, "  %-28s %3d\n", c.Name, c.Count)
		}

		fmt.Fprintln(w, "Least assigned:")
		for _, c := range role.Least {
			fmt.Fprintf(w, "  %-28s %3d\n", c.Name, c.Count)
		}

		if len(role.NeverAssigned) > 0 {
			fmt.Fprintf(w, "%sNever assigned:%s\n", colorDim, colorReset)
			for _, name := range role.NeverAssigned {
				fmt.Fprintf(w, "  %s\n", name)
			}
		}
	}
	fmt.Fprintln(w)
}
