package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"contract-workspace/internal/delivery/http/handler"
	"contract-workspace/internal/service"
)

func main() {
	install := flag.Bool("install", false, "Install and start the Windows service")
	uninstall := flag.Bool("uninstall", false, "Stop and remove the Windows service")
	start := flag.Bool("start", false, "Start the service")
	stop := flag.Bool("stop", false, "Stop the service")
	debug := flag.Bool("debug", false, "Run under the service debug runner")
	version := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *version {
		fmt.Printf("Contract Workspace Gateway %s\n", handler.Version)
		return
	}

	exePath, err := os.Executable()
	if err != nil {
		log.Fatal(err)
	}
	// config.yaml is looked up next to the binary
	if err := os.Chdir(filepath.Dir(exePath)); err != nil {
		log.Printf("Warning: could not change to executable directory: %v", err)
	}

	switch {
	case *install:
		if err := service.InstallService(exePath); err != nil {
			log.Fatalf("Failed to install service: %v", err)
		}
		fmt.Println("Service installed")
		if err := service.StartService(); err != nil {
			log.Printf("Warning: failed to start service, start it manually: %v", err)
			return
		}
		fmt.Println("Service started")

	case *uninstall:
		_ = service.StopService()
		if err := service.UninstallService(); err != nil {
			log.Fatalf("Failed to uninstall service: %v", err)
		}
		fmt.Println("Service uninstalled")

	case *start:
		if err := service.StartService(); err != nil {
			log.Fatalf("Failed to start service: %v", err)
		}
		fmt.Println("Service started")

	case *stop:
		if err := service.StopService(); err != nil {
			log.Fatalf("Failed to stop service: %v", err)
		}
		fmt.Println("Service stopped")

	default:
		isService, err := service.IsWindowsService()
		if err != nil {
			log.Printf("Warning: could not determine if running as service: %v", err)
		}

		app := service.NewApplication()
		if isService || *debug {
			err = service.RunService(*debug, app)
		} else {
			fmt.Printf("Contract Workspace Gateway %s\n", handler.Version)
			fmt.Println("Running in console mode. Press Ctrl+C to stop.")
			fmt.Println("Flags: -install -uninstall -start -stop -debug -version")
			err = app.Run()
		}
		if err != nil {
			log.Fatal(err)
		}
	}
}
