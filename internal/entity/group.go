package entity

import (
	"fmt"

	"github.com/samber/lo"
)

// Group is a node of the cohort tree. A parent owns its children; a group
// with neither parent nor children is a simple group. Headcount of a parent
// is the sum of its children's headcounts, computed once at load.
type Group struct {
	ID        string `validate:"required"`
	Name      string `validate:"required"`
	Headcount int
	ParentID  string
	Children  []*Group
}

// GroupSet owns the loaded group tree plus a derived, read-only child-to-parent
// index rebuilt at construction. It is the only way the rest of the system
// navigates group hierarchy.
type GroupSet struct {
	groups   []*Group
	byID     map[string]*Group
	parentOf map[string]string
}

func NewGroupSet(groups []*Group) (*GroupSet, error) {
	set := &GroupSet{
		groups:   groups,
		byID:     make(map[string]*Group, len(groups)),
		parentOf: make(map[string]string),
	}

	for _, group := range groups {
		if _, dup := set.byID[group.ID]; dup {
			return nil, fmt.Errorf("duplicate group %q", group.ID)
		}
		set.byID[group.ID] = group
	}

	//** Link children to their parents
	for _, group := range groups {
		if group.ParentID == "" {
			continue
		}
		parent, ok := set.byID[group.ParentID]
		if !ok {
			return nil, fmt.Errorf("group %q references unknown parent %q", group.ID, group.ParentID)
		}
		parent.Children = append(parent.Children, group)
		set.parentOf[group.ID] = parent.ID
	}

	//** Compute parent headcounts from their children
	for _, group := range groups {
		if len(group.Children) > 0 {
			group.Headcount = lo.SumBy(group.Children, func(child *Group) int { return child.Headcount })
		}
	}

	return set, nil
}

func (set *GroupSet) ByID(id string) (*Group, bool) {
	group, ok := set.byID[id]
	return group, ok
}

// ParentOf reads the derived child-to-parent index.
func (set *GroupSet) ParentOf(id string) (string, bool) {
	parent, ok := set.parentOf[id]
	return parent, ok
}

func (set *GroupSet) All() []*Group {
	return set.groups
}
