// boardctl demonstrates the memboard primitives between two real
// processes. The parent maps a file-backed region, holds the lock
// byte, and spawns itself as a child. The child maps the same file,
// contends for the lock, deposits a payload behind it and releases.
// The parent verifies the payload arrived intact.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"memboard/region"
	"memboard/shmem"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to TOML config")
		child      = flag.Bool("child", false, "run as the child side (internal)")
		childPath  = flag.String("region", "", "region file path (child side)")
		childValue = flag.Uint64("payload", 0, "payload value (child side)")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	if *child {
		if err := runChild(*childPath, uint32(*childValue)); err != nil {
			log.Fatal().Err(err).Msg("child failed")
		}
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("bad config")
	}
	if err := runParent(cfg); err != nil {
		log.Fatal().Err(err).Msg("board exchange failed")
	}
}

func runParent(cfg Config) error {
	path := cfg.RegionPath
	if path == "" {
		path = filepath.Join(os.TempDir(), fmt.Sprintf("memboard-%d", os.Getpid()))
	}

	reg, err := region.CreateFile(path, cfg.RegionSize)
	if err != nil {
		return err
	}
	defer reg.Remove()
	defer reg.Close()

	addr, size, err := reg.AddressAndSize()
	if err != nil {
		return err
	}
	log.Info().
		Uint64("addr", uint64(addr)).
		Int("size", size).
		Str("region", path).
		Msg("region mapped")

	// Take the lock before the child exists so it has to contend.
	ok, err := shmem.TryLockByte(addr)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("fresh region lock byte not free")
	}

	exe, err := os.Executable()
	if err != nil {
		return err
	}
	cmd := exec.Command(exe,
		"-child",
		"-region", path,
		"-payload", strconv.FormatUint(uint64(cfg.Payload), 10))
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err = cmd.Start(); err != nil {
		return fmt.Errorf("spawn child: %w", err)
	}
	log.Info().Int("pid", cmd.Process.Pid).Msg("child spawned")

	view, err := shmem.NewRawView(addr, size)
	if err != nil {
		return err
	}
	view.SetByte(0, 0) // yield the lock byte

	deadline := time.Now().Add(cfg.WaitTimeout)
	attempts := 0
	for view.Uint32(1) != cfg.Payload {
		if time.Now().After(deadline) {
			cmd.Process.Kill()
			return fmt.Errorf("payload not observed within %s", cfg.WaitTimeout)
		}
		attempts++
		time.Sleep(time.Millisecond)
	}
	if err = cmd.Wait(); err != nil {
		return fmt.Errorf("child exit: %w", err)
	}

	if b := view.Byte(0); b != 0 {
		return fmt.Errorf("lock byte left at %d after child release", b)
	}
	log.Info().
		Int("attempts", attempts).
		Uint32("payload", cfg.Payload).
		Msg("payload observed, lock byte released")
	return nil
}

func runChild(path string, payload uint32) error {
	if path == "" {
		return errors.New("child needs -region")
	}

	reg, err := region.OpenFile(path)
	if err != nil {
		return err
	}
	defer reg.Close()

	addr, size, err := reg.AddressAndSize()
	if err != nil {
		return err
	}
	view, err := shmem.NewRawView(addr, size)
	if err != nil {
		return err
	}
	log.Info().Uint64("addr", uint64(addr)).Int("size", size).Msg("child mapped region")

	attempts := 0
	for {
		ok, err := shmem.TryLockByte(addr)
		if err != nil {
			return err
		}
		if ok {
			break
		}
		attempts++
		time.Sleep(time.Millisecond)
	}

	view.PutUint32(1, payload)
	view.SetByte(0, 0)
	log.Info().Int("attempts", attempts).Uint32("payload", payload).Msg("payload written")
	return nil
}
