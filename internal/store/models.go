// Package store contains the database layer for the FEA orchestration core.
package store

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of an FEA job in the workflow.
type JobStatus string

const (
	StatusInitialized JobStatus = "INITIALIZED"
	StatusRunning     JobStatus = "RUNNING"
	StatusCompleted   JobStatus = "COMPLETED"
	StatusFailed      JobStatus = "FAILED"

	// Reserved for future pipeline stages. Part of the status vocabulary
	// and accepted by the status-update API, but never produced by the
	// current worker pipeline.
	StatusInputGenerated JobStatus = "INPUT_GENERATED"
	StatusMeshingStarted JobStatus = "MESHING_STARTED"
)

// Valid reports whether s is part of the fixed status vocabulary.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusInitialized, StatusInputGenerated, StatusMeshingStarted,
		StatusRunning, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further worker-driven transition occurs from s.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is the central entity tracked by the orchestration core.
// Status and logs are mutated only through UpdateStatus (and the atomic
// claim); input parameters are immutable after creation.
type Job struct {
	ID          uuid.UUID       `json:"job_id"`
	Name        string          `json:"job_name"`
	Status      JobStatus       `json:"status"`
	LastUpdated time.Time       `json:"last_updated"`
	Input       SimulationInput `json:"input_parameters"`
	Logs        []string        `json:"logs"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Geometry holds the dimensions of the structural part, in meters.
type Geometry struct {
	LengthM float64 `json:"length_m" validate:"gt=0"`
	WidthM  float64 `json:"width_m" validate:"gt=0"`
	HeightM float64 `json:"height_m" validate:"gt=0"`
}

// Material holds linear-elastic material properties.
type Material struct {
	Name            string  `json:"name" validate:"required"`
	YoungsModulusPa float64 `json:"youngs_modulus_pa" validate:"gt=0"`
	PoissonRatio    float64 `json:"poisson_ratio" validate:"gte=0,lte=0.5"`
}

// Loading holds applied loads and boundary conditions.
type Loading struct {
	TipLoadN float64 `json:"tip_load_n"`
}

// Discretization is the mesh density (element count) along each axis.
type Discretization struct {
	ElementsLength int `json:"elements_length" validate:"gt=0"`
	ElementsWidth  int `json:"elements_width" validate:"gt=0"`
	ElementsHeight int `json:"elements_height" validate:"gt=0"`
}

// SimulationInput is the validated job configuration handed to the engine.
// The orchestration core treats it as opaque beyond serializing it into the
// job record; validity is enforced once at creation and never re-checked.
type SimulationInput struct {
	ModelName      string         `json:"MODEL_NAME" validate:"required"`
	TestType       string         `json:"TEST_TYPE" validate:"required,oneof=CantileverBeam TaylorImpact TensionTest"`
	Geometry       Geometry       `json:"GEOMETRY"`
	Material       Material       `json:"MATERIAL"`
	Loading        Loading        `json:"LOADING"`
	Discretization Discretization `json:"DISCRETIZATION"`
}

// JobPage is one page of a keyset-paginated job listing.
type JobPage struct {
	Jobs       []*Job
	HasMore    bool
	NextCursor string
}

// ListOptions control job listing. Limit must be within [1, MaxListLimit].
type ListOptions struct {
	Status *JobStatus
	Cursor string
	Limit  int
}

// MaxListLimit bounds a single listing page.
const MaxListLimit = 100
