// Package view turns a chore snapshot into the two list sections shown to
// the user. Rendering is a pure function of the snapshot; per-row action
// state lives in [Pending] and is layered on top by the caller.
package view

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/idilsaglam/chores/internal/model"
)

const (
	MyChoresID    = "my-chores"
	ClaimChoresID = "claim-chores"

	FormActionUpdate = "/chore/update"
	FormActionClaim  = "/chore/claim"

	NoAssignedText  = "No chores assigned to you today!"
	NoClaimableText = "No chores available to claim!"
)

// Form is what a row submits: a server action plus its hidden fields.
type Form struct {
	ID     string
	Action string
	Values url.Values
}

type Row struct {
	ChoreID int
	Label   string
	// Form is nil for placeholder rows.
	Form *Form
	// HasCheckbox is set on "my chores" rows; Checked mirrors Completed.
	HasCheckbox bool
	Checked     bool
	// HasClaim is set on claimable rows.
	HasClaim bool
}

func (r Row) Placeholder() bool { return r.Form == nil }

type Section struct {
	ID    string
	Title string
	Rows  []Row
}

// Empty reports whether the section shows only its placeholder.
func (s Section) Empty() bool {
	return len(s.Rows) == 1 && s.Rows[0].Placeholder()
}

// Page is everything the chore view shows for one snapshot.
type Page struct {
	Context model.PageContext
	Mine    Section
	Claim   Section
}

// Render builds both sections. The page context is carried for display only;
// filtering relies on the server-computed IsAssigned/IsClaimable flags.
func Render(pc model.PageContext, chores []model.Chore) Page {
	return Page{
		Context: pc,
		Mine:    RenderAssigned(chores),
		Claim:   RenderClaimable(chores),
	}
}

func RenderAssigned(chores []model.Chore) Section {
	s := Section{ID: MyChoresID, Title: "Chores for Today"}
	for _, c := range chores {
		if !c.IsAssigned {
			continue
		}
		s.Rows = append(s.Rows, Row{
			ChoreID: c.ID,
			Label:   label(c),
			Form: &Form{
				ID:     fmt.Sprintf("form-%d", c.ID),
				Action: FormActionUpdate,
				Values: url.Values{
					"chore_id":  {strconv.Itoa(c.ID)},
					"completed": {strconv.FormatBool(!c.Completed)},
				},
			},
			HasCheckbox: true,
			Checked:     c.Completed,
		})
	}
	if len(s.Rows) == 0 {
		s.Rows = []Row{{Label: NoAssignedText}}
	}
	return s
}

func RenderClaimable(chores []model.Chore) Section {
	s := Section{ID: ClaimChoresID, Title: "Chores Available to Claim"}
	for _, c := range chores {
		if !c.IsClaimable {
			continue
		}
		s.Rows = append(s.Rows, Row{
			ChoreID: c.ID,
			Label:   label(c),
			Form: &Form{
				ID:     fmt.Sprintf("claim-form-%d", c.ID),
				Action: FormActionClaim,
				Values: url.Values{"chore_id": {strconv.Itoa(c.ID)}},
			},
			HasClaim: true,
		})
	}
	if len(s.Rows) == 0 {
		s.Rows = []Row{{Label: NoClaimableText}}
	}
	return s
}

func label(c model.Chore) string {
	return fmt.Sprintf("%s (%d points)", c.Name, c.Points)
}
