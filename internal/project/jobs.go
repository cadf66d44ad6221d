package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Job is one search declared in a job file:
//
//	search "corner" {
//	  shape       = "shapes.bin"
//	  shape_index = 2
//	  world       = "${job_dir}/world.xlsx"
//	  delay       = "5ms"
//	  animated    = true
//	  pdf         = "out/corner.pdf"
//	}
//
// Relative paths are resolved against the job file's directory.
type Job struct {
	Name       string `hcl:"name,label"`
	Shape      string `hcl:"shape"`
	World      string `hcl:"world"`
	ShapeIndex int    `hcl:"shape_index,optional"`
	WorldIndex int    `hcl:"world_index,optional"`
	Delay      string `hcl:"delay,optional"`
	Animated   bool   `hcl:"animated,optional"`
	CheckOnly  bool   `hcl:"check_only,optional"`
	PDF        string `hcl:"pdf,optional"`
	XLSX       string `hcl:"xlsx,optional"`
	DXF        string `hcl:"dxf,optional"`
}

// DelayDuration parses Delay; an empty string is no delay.
func (j Job) DelayDuration() (time.Duration, error) {
	if j.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(j.Delay)
	if err != nil {
		return 0, fmt.Errorf("search %q: delay: %w", j.Name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("search %q: delay must not be negative", j.Name)
	}
	return d, nil
}

// hclJobFile represents the top-level structure of a job file for decoding.
type hclJobFile struct {
	Searches []*Job `hcl:"search,block"`
}

// jobEvalContext exposes the environment as `env` and the job file's
// directory as `job_dir` to expressions in a job file.
func jobEvalContext(dir string) *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	envVal := cty.EmptyObjectVal
	if len(env) > 0 {
		envVal = cty.ObjectVal(env)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":     envVal,
			"job_dir": cty.StringVal(dir),
		},
	}
}

// LoadJobs parses an HCL job file and returns its searches in file order.
func LoadJobs(path string) ([]Job, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	dir := filepath.Dir(path)
	var parsed hclJobFile
	diags = gohcl.DecodeBody(hclFile.Body, jobEvalContext(dir), &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	jobs := make([]Job, 0, len(parsed.Searches))
	seen := make(map[string]bool, len(parsed.Searches))
	for _, j := range parsed.Searches {
		if seen[j.Name] {
			return nil, fmt.Errorf("%s: duplicate search %q", path, j.Name)
		}
		seen[j.Name] = true
		if err := j.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		j.Shape = resolvePath(dir, j.Shape)
		j.World = resolvePath(dir, j.World)
		j.PDF = resolvePath(dir, j.PDF)
		j.XLSX = resolvePath(dir, j.XLSX)
		j.DXF = resolvePath(dir, j.DXF)
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

func (j *Job) validate() error {
	if strings.TrimSpace(j.Shape) == "" {
		return fmt.Errorf("search %q: shape is required", j.Name)
	}
	if strings.TrimSpace(j.World) == "" {
		return fmt.Errorf("search %q: world is required", j.Name)
	}
	if j.ShapeIndex < 0 || j.WorldIndex < 0 {
		return fmt.Errorf("search %q: pattern indexes must not be negative", j.Name)
	}
	_, err := j.DelayDuration()
	return err
}

func resolvePath(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
