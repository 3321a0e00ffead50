// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Socius Org

package models

import "time"

// Workflow phases a research project moves through, in order.
const (
	PhaseDesign  = "design"
	PhaseCollect = "collect"
	PhaseCurate  = "curate"
	PhaseExport  = "export"
)

// Phases lists the workflow phases in their canonical order.
var Phases = []string{PhaseDesign, PhaseCollect, PhaseCurate, PhaseExport}

// ValidPhase reports whether phase is one of the known workflow phases.
func ValidPhase(phase string) bool {
	for _, p := range Phases {
		if p == phase {
			return true
		}
	}
	return false
}

// Project is a single Reddit research project.
type Project struct {
	// ID is a client-generated UUID.
	ID string `json:"id"`

	// Name is the project title shown on the dashboard. Required.
	Name string `json:"name"`

	// Description is an optional free-form summary.
	Description string `json:"description"`

	// Phase is the current workflow phase, one of [Phases].
	Phase string `json:"phase"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Project model.
func (p Project) TableName() string {
	return "projects"
}
