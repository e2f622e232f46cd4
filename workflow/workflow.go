/*
Package workflow tracks the fractionalization wizard: which step is active
and the form fields collected so far.

The machine moves forward on explicit user action only. Going back to the
asset-selection step keeps previously entered configuration values, so a
user returning forward finds the form as they left it. Completing or
resetting discards everything.
*/
package workflow

import (
	"errors"
	"fmt"
)

type Step int

const (
	StepSelectAsset Step = iota + 1
	StepConfigureTokens
)

// DefaultTotalSupply pre-fills the supply field of a fresh form.
const DefaultTotalSupply uint64 = 1_000_000

var ErrNoAssetSelected = errors.New("no asset selected")

func (s Step) String() string {
	switch s {
	case StepSelectAsset:
		return "select-asset"
	case StepConfigureTokens:
		return "configure-tokens"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

type (
	// FormData is the accumulated wizard input.
	FormData struct {
		AssetID     string `json:"assetId"`
		TokenName   string `json:"tokenName"`
		TokenSymbol string `json:"tokenSymbol"`
		TotalSupply uint64 `json:"totalSupply"`
	}

	// FormUpdate merges into FormData; nil fields are left untouched.
	FormUpdate struct {
		TokenName   *string `json:"tokenName,omitempty"`
		TokenSymbol *string `json:"tokenSymbol,omitempty"`
		TotalSupply *uint64 `json:"totalSupply,omitempty"`
	}

	// Workflow is one wizard session. Single consumer, single writer; not
	// safe for concurrent mutation.
	Workflow struct {
		step Step
		form FormData
	}
)

func New() *Workflow {
	return &Workflow{
		step: StepSelectAsset,
		form: FormData{TotalSupply: DefaultTotalSupply},
	}
}

func (w *Workflow) Step() Step     { return w.step }
func (w *Workflow) Form() FormData { return w.form }

// Select records the chosen asset and advances to token configuration.
func (w *Workflow) Select(assetID string) error {
	if assetID == "" {
		return errors.New("asset id is required")
	}
	w.form.AssetID = assetID
	w.step = StepConfigureTokens
	return nil
}

// Back returns to asset selection. Entered configuration values persist.
func (w *Workflow) Back() {
	w.step = StepSelectAsset
}

// Update merges form field edits.
func (w *Workflow) Update(upd FormUpdate) {
	if upd.TokenName != nil {
		w.form.TokenName = *upd.TokenName
	}
	if upd.TokenSymbol != nil {
		w.form.TokenSymbol = *upd.TokenSymbol
	}
	if upd.TotalSupply != nil {
		w.form.TotalSupply = *upd.TotalSupply
	}
}

// Complete ends the session, returning the submitted form and resetting
// the machine to its initial state.
func (w *Workflow) Complete() (FormData, error) {
	if w.step != StepConfigureTokens || w.form.AssetID == "" {
		return FormData{}, ErrNoAssetSelected
	}
	submitted := w.form
	w.Reset()
	return submitted, nil
}

// Reset discards all state, as on navigation away.
func (w *Workflow) Reset() {
	w.step = StepSelectAsset
	w.form = FormData{TotalSupply: DefaultTotalSupply}
}
