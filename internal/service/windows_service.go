//go:build windows

package service

import (
	"fmt"
	"time"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/debug"
	"golang.org/x/sys/windows/svc/eventlog"
	"golang.org/x/sys/windows/svc/mgr"
)

const (
	ServiceName        = "ContractWorkspace"
	ServiceDisplayName = "Contract Workspace Gateway"
	ServiceDescription = "Gateway between the contract workspace UI and the contract backend"

	stopWaitHint = 30 * time.Second
)

var restartActions = []mgr.RecoveryAction{
	{Type: mgr.ServiceRestart, Delay: 5 * time.Second},
	{Type: mgr.ServiceRestart, Delay: 10 * time.Second},
	{Type: mgr.ServiceRestart, Delay: 30 * time.Second},
}

// WorkspaceService adapts an Application to the service control manager
type WorkspaceService struct {
	app  *Application
	elog debug.Log
}

func (s *WorkspaceService) Execute(_ []string, r <-chan svc.ChangeRequest, changes chan<- svc.Status) (bool, uint32) {
	const accepted = svc.AcceptStop | svc.AcceptShutdown
	changes <- svc.Status{State: svc.StartPending}

	runErr := make(chan error, 1)
	go func() { runErr <- s.app.Run() }()

	changes <- svc.Status{State: svc.Running, Accepts: accepted}
	s.elog.Info(1, fmt.Sprintf("%s service started", ServiceName))

	for {
		select {
		case err := <-runErr:
			// the application exited on its own
			if err != nil {
				s.elog.Error(1, fmt.Sprintf("%s stopped with error: %v", ServiceName, err))
				return false, 1
			}
			return false, 0
		case c := <-r:
			switch c.Cmd {
			case svc.Interrogate:
				changes <- c.CurrentStatus
			case svc.Stop, svc.Shutdown:
				changes <- svc.Status{State: svc.StopPending, WaitHint: uint32(stopWaitHint / time.Millisecond)}
				s.app.Shutdown()
				if err := <-runErr; err != nil {
					s.elog.Warning(1, fmt.Sprintf("%s stopped with error: %v", ServiceName, err))
				}
				return false, 0
			default:
				s.elog.Error(1, fmt.Sprintf("unexpected control request #%d", c.Cmd))
			}
		}
	}
}

// RunService hands the application to the service control manager, or to
// the console debug runner when isDebug is set
func RunService(isDebug bool, app *Application) error {
	var (
		elog debug.Log
		err  error
	)
	if isDebug {
		elog = debug.New(ServiceName)
	} else if elog, err = eventlog.Open(ServiceName); err != nil {
		return fmt.Errorf("open event log: %w", err)
	}
	defer elog.Close()

	run := svc.Run
	if isDebug {
		run = debug.Run
	}
	if err := run(ServiceName, &WorkspaceService{app: app, elog: elog}); err != nil {
		elog.Error(1, fmt.Sprintf("%s service failed: %v", ServiceName, err))
		return err
	}
	elog.Info(1, fmt.Sprintf("%s service stopped", ServiceName))
	return nil
}

func InstallService(exePath string) error {
	m, err := mgr.Connect()
	if err != nil {
		return err
	}
	defer m.Disconnect()

	if s, err := m.OpenService(ServiceName); err == nil {
		s.Close()
		return fmt.Errorf("service %s already exists", ServiceName)
	}

	s, err := m.CreateService(ServiceName, exePath, mgr.Config{
		DisplayName: ServiceDisplayName,
		Description: ServiceDescription,
		StartType:   mgr.StartAutomatic,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := eventlog.InstallAsEventCreate(ServiceName, eventlog.Error|eventlog.Warning|eventlog.Info); err != nil {
		fmt.Printf("Warning: could not install event log source: %v\n", err)
	}
	// reset the failure count after a day
	if err := s.SetRecoveryActions(restartActions, 86400); err != nil {
		fmt.Printf("Warning: failed to set recovery actions: %v\n", err)
	}
	return nil
}

func UninstallService() error {
	return withService(func(s *mgr.Service) error {
		_ = eventlog.Remove(ServiceName)
		return s.Delete()
	})
}

func StartService() error {
	return withService(func(s *mgr.Service) error {
		return s.Start()
	})
}

func StopService() error {
	return withService(func(s *mgr.Service) error {
		_, err := s.Control(svc.Stop)
		return err
	})
}

func IsWindowsService() (bool, error) {
	return svc.IsWindowsService()
}

// withService opens the installed service and hands it to fn
func withService(fn func(*mgr.Service) error) error {
	m, err := mgr.Connect()
	if err != nil {
		return err
	}
	defer m.Disconnect()

	s, err := m.OpenService(ServiceName)
	if err != nil {
		return fmt.Errorf("service %s not installed: %w", ServiceName, err)
	}
	defer s.Close()

	return fn(s)
}
