package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

const workerEnvKey = "LEADS_WORKER"

// Workers find the shared listener after stdin/stdout/stderr.
const workerListenerFD = 3

func isWorker() bool {
	return os.Getenv(workerEnvKey) == "1"
}

// workerListener rebuilds the TCP listener the master passed down.
func workerListener() (net.Listener, error) {
	f := os.NewFile(uintptr(workerListenerFD), "listener")
	if f == nil {
		return nil, errors.New("listener fd not inherited")
	}
	defer f.Close()
	return net.FileListener(f)
}

// runMaster binds the listen address, forks the workers, and supervises them.
// Workers that die unexpectedly are restarted; SIGTERM/SIGINT is forwarded
// and the master exits once every worker is gone.
func runMaster() {
	addr := cfg.ListenAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal("binding listen address", zap.String("addr", addr), zap.Error(err))
	}
	lnFile, err := ln.(*net.TCPListener).File()
	if err != nil {
		logger.Fatal("duplicating listener", zap.Error(err))
	}

	// Seed before forking so it happens exactly once.
	if cfg.SeedPath != "" {
		st, err := OpenLeadStore(cfg.DBPath)
		if err != nil {
			logger.Fatal("opening lead store", zap.String("path", cfg.DBPath), zap.Error(err))
		}
		n, err := seedLeads(context.Background(), st, cfg.SeedPath)
		_ = st.Close()
		if err != nil {
			logger.Fatal("seeding leads", zap.String("path", cfg.SeedPath), zap.Error(err))
		}
		if n > 0 {
			logger.Info("seeded leads", zap.Int("count", n))
		}
	}

	logger.Info("listening",
		zap.String("addr", addr),
		zap.Int("workers", workerCount),
		zap.String("service", cfg.ServiceName),
	)

	type workerExit struct {
		pid  int
		code int
	}
	exits := make(chan workerExit, workerCount)
	procs := make(map[int]*os.Process, workerCount)

	spawn := func() {
		cmd := exec.Command(os.Args[0])
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Env = append(os.Environ(), workerEnvKey+"=1")
		cmd.ExtraFiles = []*os.File{lnFile}
		if err := cmd.Start(); err != nil {
			logger.Fatal("starting worker", zap.Error(err))
		}
		procs[cmd.Process.Pid] = cmd.Process
		logger.Info("worker started", zap.Int("pid", cmd.Process.Pid))
		go func(c *exec.Cmd) {
			err := c.Wait()
			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				code = 1
			}
			exits <- workerExit{pid: c.Process.Pid, code: code}
		}(cmd)
	}

	for i := 0; i < workerCount; i++ {
		spawn()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	stopping := false
	alive := workerCount
	for alive > 0 {
		select {
		case sig := <-stop:
			stopping = true
			logger.Info("stopping workers", zap.String("signal", sig.String()))
			for pid, p := range procs {
				if err := p.Signal(syscall.SIGTERM); err != nil {
					logger.Warn("signaling worker", zap.Int("pid", pid), zap.Error(err))
				}
			}
		case e := <-exits:
			delete(procs, e.pid)
			alive--
			if stopping {
				continue
			}
			logger.Warn("worker exited, restarting", zap.Int("pid", e.pid), zap.Int("code", e.code))
			spawn()
			alive++
		}
	}
	_ = ln.Close()
}
