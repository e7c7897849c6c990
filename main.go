package main

import (
	"log/slog"
	"os"
	"time"

	"slabfs/internal/memfs"

	"github.com/dustin/go-humanize"
	"github.com/lmittmann/tint"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.TimeOnly,
	})))

	if err := run(); err != nil {
		slog.Error("slabfs", "err", err)
		os.Exit(1)
	}
}

func run() error {
	fs, err := memfs.CreateFS(memfs.DefaultConfig())
	if err != nil { return err }
	defer fs.Destroy()

	p := fs.CreateProc()
	defer p.Exit()

	fd, err := p.Open("/moo.txt", memfs.O_RDWR|memfs.O_CREAT)
	if err != nil { return err }

	msg := []byte("the cow says moo\n")
	for range 1000 {
		if _, err := p.Write(fd, msg); err != nil { return err }
	}

	if _, err := p.Seek(fd, 0, memfs.SeekSet); err != nil { return err }
	buf := make([]byte, len(msg))
	if _, err := p.Read(fd, buf); err != nil { return err }

	fi, err := p.Fstat(fd)
	if err != nil { return err }
	st := fs.Stats()
	slog.Info("slabfs", "first", string(buf[:len(buf)-1]), "size", humanize.Bytes(uint64(fi.Size)),
		"blocks", st.Blocks.Outstanding, "blockcap", st.Blocks.Capacity, "grows", st.Blocks.Grows)
	return nil
}
