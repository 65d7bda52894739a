//go:build !windows

package service

import "errors"

// ErrUnsupported is returned by service control outside Windows
var ErrUnsupported = errors.New("service control is only available on Windows")

// RunService runs the application in the foreground
func RunService(_ bool, app *Application) error {
	return app.Run()
}

func InstallService(string) error { return ErrUnsupported }

func UninstallService() error { return ErrUnsupported }

func StartService() error { return ErrUnsupported }

func StopService() error { return ErrUnsupported }

func IsWindowsService() (bool, error) {
	return false, nil
}
