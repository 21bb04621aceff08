package automation

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/chromedp/chromedp"
)

var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
}

// ChromeDriver drives a visible Chrome/Chromium instance over the DevTools
// protocol. The operator supervises every run: explicit pause gates before
// and after form interaction, and submit clicks only on confirmation.
type ChromeDriver struct {
	execPath string
}

var _ Driver = (*ChromeDriver)(nil)

// NewChromeDriver probes PATH for a Chrome-family binary.
func NewChromeDriver() *ChromeDriver {
	for _, candidate := range chromeCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return &ChromeDriver{execPath: path}
		}
	}
	return &ChromeDriver{}
}

// Available reports whether a browser binary was found.
func (d *ChromeDriver) Available() bool { return d.execPath != "" }

func (d *ChromeDriver) newBrowser(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(d.execPath),
		chromedp.Flag("headless", false),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	return browserCtx, func() {
		cancelBrowser()
		cancelAlloc()
	}
}

// TryRotate fills the change-password form. Requires new_password and
// confirm_password selectors; without them the site cannot be automated.
func (d *ChromeDriver) TryRotate(ctx context.Context, req RotateRequest, sup Supervisor) (bool, error) {
	if !d.Available() {
		return false, nil
	}
	newSel := req.Selectors["new_password"]
	confirmSel := req.Selectors["confirm_password"]
	if newSel == "" || confirmSel == "" {
		return false, nil
	}
	currentSel := req.Selectors["current_password"]
	submitSel := req.Selectors["submit_button"]

	browserCtx, cancel := d.newBrowser(ctx)
	defer cancel()

	if err := chromedp.Run(browserCtx, chromedp.Navigate(req.TargetURL)); err != nil {
		return false, fmt.Errorf("navigate %s: %w", req.TargetURL, err)
	}
	if err := sup.Pause("Browser automation is ready. Log in and navigate to the change-password form, then press Enter to continue..."); err != nil {
		return false, err
	}

	fill := []chromedp.Action{}
	if currentSel != "" {
		fill = append(fill, chromedp.SendKeys(currentSel, req.CurrentPassword, chromedp.ByQuery))
	}
	fill = append(fill,
		chromedp.SendKeys(newSel, req.NewPassword, chromedp.ByQuery),
		chromedp.SendKeys(confirmSel, req.NewPassword, chromedp.ByQuery),
	)
	if err := chromedp.Run(browserCtx, fill...); err != nil {
		return false, fmt.Errorf("fill password form: %w", err)
	}

	if submitSel != "" {
		clickSubmit, err := sup.Confirm("Click submit automatically?", false)
		if err != nil {
			return false, err
		}
		if clickSubmit {
			if err := chromedp.Run(browserCtx, chromedp.Click(submitSel, chromedp.ByQuery)); err != nil {
				return false, fmt.Errorf("click submit: %w", err)
			}
		}
	}
	if err := sup.Pause("Review browser state. Press Enter to close automated browser..."); err != nil {
		return false, err
	}
	return true, nil
}

// TryDelete drives the deletion confirmation flow. Requires the
// delete_confirm_button selector.
func (d *ChromeDriver) TryDelete(ctx context.Context, req DeleteRequest, sup Supervisor) (bool, error) {
	if !d.Available() {
		return false, nil
	}
	deleteSel := req.Selectors["delete_confirm_button"]
	if deleteSel == "" {
		return false, nil
	}

	browserCtx, cancel := d.newBrowser(ctx)
	defer cancel()

	if err := chromedp.Run(browserCtx, chromedp.Navigate(req.TargetURL)); err != nil {
		return false, fmt.Errorf("navigate %s: %w", req.TargetURL, err)
	}
	if err := sup.Pause("Browser opened for deletion flow. Log in/MFA and navigate to the deletion confirmation step, then press Enter to continue..."); err != nil {
		return false, err
	}
	clickDelete, err := sup.Confirm("Click delete confirmation automatically?", false)
	if err != nil {
		return false, err
	}
	if clickDelete {
		if err := chromedp.Run(browserCtx, chromedp.Click(deleteSel, chromedp.ByQuery)); err != nil {
			return false, fmt.Errorf("click delete confirmation: %w", err)
		}
	}
	if err := sup.Pause("Review browser state. Press Enter to close automated browser..."); err != nil {
		return false, err
	}
	return true, nil
}
