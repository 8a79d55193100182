package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"course_e2e/application/automation"
	"course_e2e/domain/entities"
)

func (a *App) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Launch and quit the configured browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			started := time.Now()
			driver, err := a.newDriver(a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("failed to start browser: %w", err)
			}
			launched := time.Since(started)

			if err := driver.Close(); err != nil {
				return fmt.Errorf("failed to close browser: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s ok: started in %s, closed in %s\n",
				driver.Name(), launched.Round(time.Millisecond), (time.Since(started) - launched).Round(time.Millisecond))
			return nil
		},
	}
}

func (a *App) smokeCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Open a page, wait for it to load and record a run summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			r, err := a.startRun()
			if err != nil {
				return err
			}
			defer r.close(a.logger)

			summary := entities.RunSummary{
				RunID:     r.id,
				Browser:   r.session.Driver().Name(),
				BaseURL:   a.cfg.BaseURL,
				StartedAt: time.Now().UTC(),
			}

			v := automation.NewVerifier(r.session, r.session.Logger())
			v.MarkErr(ctx, r.session.Open(ctx, path), "page loaded")
			title, err := r.session.Title(ctx)
			v.Mark(ctx, err == nil && title != "", "page has a title")
			r.session.Screenshot(ctx, "smoke")

			summary.FinishedAt = time.Now().UTC()
			summary.Checks = v.History()
			summary.Artifacts = r.session.Artifacts()
			if err := r.store.SaveSummary(summary); err != nil {
				return fmt.Errorf("failed to save run summary: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, c := range summary.Checks {
				fmt.Fprintf(out, "%s  %s\n", c.Result, c.Message)
			}
			fmt.Fprintf(out, "run %s, artifacts in %s\n", r.id, r.store.Dir())

			if !summary.Passed() {
				return errors.New("smoke run failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "page to open, relative to the base URL")
	return cmd
}

// checkFlags are the inputs of the check command
type checkFlags struct {
	path      string
	locator   string
	condition string
	timeout   time.Duration
	click     bool
}

// parse validates the flags before any browser is started
func (f checkFlags) parse() (entities.Locator, entities.Condition, error) {
	loc, err := entities.ParseLocator(f.locator)
	if err != nil {
		return entities.Locator{}, "", err
	}
	cond, err := entities.ParseCondition(f.condition)
	if err != nil {
		return entities.Locator{}, "", err
	}
	if f.timeout < 0 {
		return entities.Locator{}, "", fmt.Errorf("timeout must not be negative, got %s", f.timeout)
	}
	return loc, cond, nil
}

func (a *App) checkCommand() *cobra.Command {
	var f checkFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Resolve a locator on a page and report the outcome",
		Example: "  course-e2e check --path login/ --locator id=login-button --condition clickable --timeout 10s\n" +
			"  course-e2e check --locator \"xpath=//a[normalize-space()='Courses']\" --click",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, cond, err := f.parse()
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			r, err := a.startRun()
			if err != nil {
				return err
			}
			defer r.close(a.logger)

			if err := r.session.Open(ctx, f.path); err != nil {
				return err
			}

			s := r.session
			if f.timeout > 0 {
				s = s.Within(f.timeout)
			}

			out := cmd.OutOrStdout()
			started := time.Now()
			if _, err := s.GetElement(ctx, loc, cond); err != nil {
				fmt.Fprintf(out, "%s: %s after %s\n", loc, entities.KindOf(err), time.Since(started).Round(time.Millisecond))
				return err
			}
			fmt.Fprintf(out, "%s: %s after %s\n", loc, cond, time.Since(started).Round(time.Millisecond))

			if f.click {
				if err := s.Click(ctx, loc); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: clicked\n", loc)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.path, "path", "", "page to open, relative to the base URL")
	flags.StringVar(&f.locator, "locator", "", "element locator in kind=value form, e.g. id=login-button")
	flags.StringVar(&f.condition, "condition", string(entities.ConditionPresent), "present, visible, clickable or invisible")
	flags.DurationVar(&f.timeout, "timeout", 0, "wait timeout (default from configuration)")
	flags.BoolVar(&f.click, "click", false, "click the element once it is found")
	_ = cmd.MarkFlagRequired("locator")
	return cmd
}
