package template

import (
	"github.com/mpyw/modresolve/pkg/loader"
)

// BuildVars constructs a Vars instance from the outcome of loading id.
// err is the error returned with the outcome, if any.
func BuildVars(id string, out loader.Outcome, err error) Vars {
	vars := Vars{
		ID:         id,
		Module:     out.Module,
		Original:   out.Original,
		URL:        out.URL,
		Source:     string(out.Source),
		Name:       out.Module,
		Redirected: out.URL != out.Original,
	}
	if out.Resolution != nil {
		vars.State = out.Resolution.State.String()
	}
	if out.Patch != nil {
		vars.Name = out.Patch.Record.Name
		vars.Renamed = out.Patch.Renamed()
	}
	if err != nil {
		vars.Error = err.Error()
	}
	return vars
}
