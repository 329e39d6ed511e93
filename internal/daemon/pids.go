package daemon

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"syscall"
)

// PidFile tracks the pids of spawned daemon processes so that any
// later invocation, from any process, can tear them down.
type PidFile struct {
	path string
}

func NewPidFile(path string) *PidFile {
	return &PidFile{path: path}
}

func (p *PidFile) Save(pid int) error {
	pids, err := p.load()
	if err != nil {
		return err
	}
	for _, existing := range pids {
		if existing == pid {
			return nil
		}
	}
	pids = append(pids, pid)
	return p.write(pids)
}

// KillAll signals every saved pid and truncates the file. Pids whose
// process is already gone are skipped silently.
func (p *PidFile) KillAll() error {
	pids, err := p.load()
	if err != nil {
		return err
	}
	for _, pid := range pids {
		proc, err := os.FindProcess(pid)
		if err != nil {
			continue
		}
		_ = proc.Signal(syscall.SIGTERM)
	}
	return p.write(nil)
}

func (p *PidFile) load() ([]int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var pids []int
	if err := json.Unmarshal(data, &pids); err != nil {
		// A corrupt pid file should not wedge the client forever.
		return nil, nil
	}
	return pids, nil
}

func (p *PidFile) write(pids []int) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return err
	}
	if pids == nil {
		pids = []int{}
	}
	data, err := json.Marshal(pids)
	if err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0644)
}
