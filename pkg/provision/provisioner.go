// Package provision orchestrates the per-repository flow: create the
// remote repository, stage and push the landing page, and enable Pages
// hosting. Items are independent; one failure never affects siblings.
package provision

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"pageforge/internal/exec"
	"pageforge/pkg/hosting"
	"pageforge/pkg/page"
	"pageforge/pkg/stage"
)

// CommitMessage is used for the initial commit of every repository.
const CommitMessage = "Initial commit: add index.html for Pages hosting"

// Stager assembles and commits the initial content of one repository,
// returning the staging directory and a cleanup function.
type Stager interface {
	Stage(ctx context.Context, name, branch, message string, files map[string][]byte) (string, func() error, error)
}

// GitStager implements Stager on top of a temporary git workspace.
type GitStager struct {
	runner   exec.Runner
	identity stage.Identity
}

// NewGitStager creates a stager that commits with the given identity.
func NewGitStager(runner exec.Runner, identity stage.Identity) *GitStager {
	return &GitStager{runner: runner, identity: identity}
}

// Stage creates a workspace, writes the files, and commits them.
func (s *GitStager) Stage(ctx context.Context, name, branch, message string, files map[string][]byte) (string, func() error, error) {
	ws, err := stage.New(ctx, s.runner, name, branch, s.identity)
	if err != nil {
		return "", nil, err
	}

	for fileName, content := range files {
		if err := ws.WriteFile(fileName, content); err != nil {
			_ = ws.Clean()
			return "", nil, err
		}
	}

	if err := ws.Commit(ctx, message); err != nil {
		_ = ws.Clean()
		return "", nil, err
	}

	return ws.Dir, ws.Clean, nil
}

// Options controls a provisioning run.
type Options struct {
	Visibility  hosting.Visibility
	Branch      string
	Concurrency int
	// FailFast aborts the remaining repositories after the first failure.
	// The default is to attempt every repository and report an aggregate
	// result.
	FailFast bool
	// DryRun prints the planned repositories without any side effects.
	DryRun bool
}

// Status classifies the outcome for one repository.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Result aggregates per-repository outcomes for a run.
type Result struct {
	Succeeded []string         `json:"succeeded"`
	Skipped   []string         `json:"skipped"`
	Failed    map[string]error `json:"-"`
	Summary   Summary          `json:"summary"`
}

// Summary holds the counts for a run.
type Summary struct {
	Total        int `json:"total"`
	SuccessCount int `json:"success_count"`
	SkippedCount int `json:"skipped_count"`
	FailureCount int `json:"failure_count"`
}

// Err returns a non-nil error when any repository failed, suitable for a
// non-zero process exit.
func (r *Result) Err() error {
	if r.Summary.FailureCount == 0 {
		return nil
	}
	return fmt.Errorf("provisioning failed for %d of %d repositories", r.Summary.FailureCount, r.Summary.Total)
}

// Provisioner runs the end-to-end flow against a hosting client.
type Provisioner struct {
	client  hosting.Client
	stager  Stager
	owner   string
	opts    Options
	limiter *Limiter
	out     io.Writer
}

// New creates a provisioner.
func New(client hosting.Client, stager Stager, owner string, opts Options, out io.Writer) *Provisioner {
	if opts.Branch == "" {
		opts.Branch = "main"
	}
	if opts.Visibility == "" {
		opts.Visibility = hosting.VisibilityPublic
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if out == nil {
		out = io.Discard
	}

	limiterCfg := DefaultLimiterConfig()
	limiterCfg.ConcurrencyLimit = opts.Concurrency

	return &Provisioner{
		client:  client,
		stager:  stager,
		owner:   owner,
		opts:    opts,
		limiter: NewLimiter(limiterCfg),
		out:     out,
	}
}

// ProvisionAll provisions every named repository and returns the
// aggregate result. With FailFast set, repositories after the first
// failure are reported as skipped.
func (p *Provisioner) ProvisionAll(ctx context.Context, names []string) *Result {
	result := &Result{
		Failed:  make(map[string]error),
		Summary: Summary{Total: len(names)},
	}

	if p.opts.DryRun {
		for _, name := range names {
			fmt.Fprintf(p.out, "would provision %s/%s (%s, branch %s)\n",
				p.owner, name, p.opts.Visibility, p.opts.Branch)
		}
		return result
	}

	if p.opts.Concurrency <= 1 {
		p.provisionSequential(ctx, names, result)
	} else {
		p.provisionConcurrent(ctx, names, result)
	}

	result.Summary.SuccessCount = len(result.Succeeded)
	result.Summary.SkippedCount = len(result.Skipped)
	result.Summary.FailureCount = len(result.Failed)
	sort.Strings(result.Succeeded)
	sort.Strings(result.Skipped)
	return result
}

func (p *Provisioner) provisionSequential(ctx context.Context, names []string, result *Result) {
	for i, name := range names {
		status, err := p.provisionOne(ctx, name)
		p.record(result, name, status, err)

		if p.opts.FailFast && status == StatusFailed {
			for _, remaining := range names[i+1:] {
				result.Skipped = append(result.Skipped, remaining)
			}
			return
		}
	}
}

func (p *Provisioner) provisionConcurrent(ctx context.Context, names []string, result *Result) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, name := range names {
		if err := p.limiter.AcquireSlot(ctx); err != nil {
			// Run cancelled by fail-fast, remaining items were not
			// attempted.
			mu.Lock()
			result.Skipped = append(result.Skipped, name)
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			defer p.limiter.ReleaseSlot()

			status, err := p.provisionOne(ctx, name)

			mu.Lock()
			p.record(result, name, status, err)
			mu.Unlock()

			if p.opts.FailFast && status == StatusFailed {
				cancel()
			}
		}(name)
	}

	wg.Wait()
}

func (p *Provisioner) record(result *Result, name string, status Status, err error) {
	switch status {
	case StatusSucceeded:
		result.Succeeded = append(result.Succeeded, name)
	case StatusSkipped:
		result.Skipped = append(result.Skipped, name)
	case StatusFailed:
		result.Failed[name] = err
	}
}

// provisionOne runs the full flow for a single repository.
func (p *Provisioner) provisionOne(ctx context.Context, name string) (Status, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return StatusSkipped, nil
	}

	fmt.Fprintf(p.out, "creating repository %s/%s...\n", p.owner, name)

	// Already-existing repositories are skipped, which keeps reruns
	// idempotent.
	exists, err := p.client.RepositoryExists(ctx, name)
	if err != nil {
		return StatusFailed, err
	}
	if exists {
		fmt.Fprintf(p.out, "repository %s/%s already exists, skipping\n", p.owner, name)
		return StatusSkipped, nil
	}

	if _, err := p.client.CreateRepository(ctx, name, p.opts.Visibility); err != nil {
		if hosting.IsAlreadyExists(err) {
			fmt.Fprintf(p.out, "repository %s/%s already exists, skipping\n", p.owner, name)
			return StatusSkipped, nil
		}
		return StatusFailed, err
	}

	fmt.Fprintf(p.out, "staging landing page for %s/%s...\n", p.owner, name)
	files := map[string][]byte{
		page.FileName: page.Render(p.owner, name),
	}
	dir, clean, err := p.stager.Stage(ctx, name, p.opts.Branch, CommitMessage, files)
	if err != nil {
		return StatusFailed, hosting.WrapToolError(err, p.owner+"/"+name)
	}
	defer func() {
		_ = clean()
	}()

	if err := p.client.SetRemote(ctx, dir, name); err != nil {
		return StatusFailed, err
	}

	fmt.Fprintf(p.out, "pushing %s to %s/%s...\n", p.opts.Branch, p.owner, name)
	if err := p.client.Push(ctx, dir, p.opts.Branch); err != nil {
		return StatusFailed, err
	}

	fmt.Fprintf(p.out, "enabling pages hosting on %s...\n", p.opts.Branch)
	if err := p.client.EnablePages(ctx, name, p.opts.Branch); err != nil {
		return StatusFailed, err
	}

	fmt.Fprintf(p.out, "deployed: %s\n", p.client.PagesURL(name))
	return StatusSucceeded, nil
}
