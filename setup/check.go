package setup

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/kxue43/envsetup/condaenv"
	"github.com/kxue43/envsetup/shell"
)

type (
	CheckRow struct {
		Item   string
		Value  string
		Status string
	}

	// Report is the read-only diagnosis produced by Check.
	Report struct {
		Rows       []CheckRow
		Compatible bool
	}
)

const (
	statusOK      = "ok"
	statusMissing = "missing"
	statusBad     = "incompatible"
)

func present(ok bool) string {
	if ok {
		return statusOK
	}

	return statusMissing
}

// Check inspects the project directory and the host. The only commands it runs are
// read-only probes such as `conda --version`.
func (o *Orchestrator) Check(ctx context.Context, probe ProbeFunc) Report {
	var r Report

	ip, err := probe(ctx)
	if err != nil {
		r.Rows = append(r.Rows, CheckRow{Item: "Python interpreter", Value: err.Error(), Status: statusMissing})
	} else {
		r.Compatible = ip.Version.Compatible(o.cfg.MinPython)

		status := statusOK
		if !r.Compatible {
			status = statusBad
		}

		r.Rows = append(r.Rows,
			CheckRow{Item: "Python interpreter", Value: ip.Executable, Status: statusOK},
			CheckRow{Item: "Python version", Value: fmt.Sprintf("%s (requires %s+)", ip.Version, o.cfg.MinPython), Status: status},
		)
	}

	r.Rows = append(r.Rows,
		CheckRow{Item: "Virtual environment", Value: o.cfg.VenvDir, Status: present(o.exists(o.cfg.VenvDir))},
		CheckRow{Item: "Requirements file", Value: o.cfg.Requirements, Status: present(o.exists(o.cfg.Requirements))},
	)

	envRow := CheckRow{Item: "Environment file", Value: o.cfg.EnvironmentFile, Status: present(o.exists(o.cfg.EnvironmentFile))}
	if envRow.Status == statusOK {
		if f, err := condaenv.Read(o.path(o.cfg.EnvironmentFile)); err != nil {
			envRow.Status = "invalid"
		} else {
			envRow.Value += " (" + f.ActivateName() + ")"
		}
	}

	r.Rows = append(r.Rows, envRow)

	condaRow := CheckRow{Item: "Conda", Value: "not found", Status: statusMissing}

	if command, err := shell.Join(o.cfg.Conda, "--version"); err == nil {
		if res := o.exec.Run(ctx, command); res.OK() {
			condaRow.Value = strings.TrimSpace(res.Stdout)
			condaRow.Status = statusOK
		}
	}

	r.Rows = append(r.Rows, condaRow)

	return r
}

// Render writes the report as a table.
func (r Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Check", "Value", "Status"})

	for _, row := range r.Rows {
		t.AppendRow(table.Row{row.Item, row.Value, row.Status})
	}

	t.Render()
}
