package memfs

import (
	"errors"
	"fmt"
	"log/slog"
	c "slabfs/internal"
	"slabfs/internal/slab"
	"slabfs/internal/util"
)

type FileDescriptor int

const (
	O_RDONLY	uint32 = 1 << 0
	O_WRONLY	uint32 = 1 << 1
	O_RDWR		uint32 = 1 << 2
	O_NONBLOCK	uint32 = 1 << 3
	O_APPEND	uint32 = 1 << 4
	O_CREAT		uint32 = 1 << 5
)

type Whence int
const (
	SeekSet Whence = iota
	SeekCur
	SeekEnd
)

// Open file description: one per successful Open, owns a reference to the inode.
type file struct {
	node	*node
	ino		*slab.Handle[Inode]
	off		int
	flags	uint32
}

func (f *file) readable() bool { return f.flags & (O_RDONLY | O_RDWR) != 0 }
func (f *file) writable() bool { return f.flags & (O_WRONLY | O_RDWR) != 0 }

type Proc struct {
	log		*slog.Logger
	fs		*FS
	cwd		*node
	fdTable	map[FileDescriptor]*file
	fds		util.Stack[FileDescriptor]
}

func (fs *FS) CreateProc() *Proc {
	fds := util.CreateStack[FileDescriptor](c.FD_LAST - c.FD_FIRST + 1)
	fds.PushRangeDesc(c.FD_FIRST, c.FD_LAST, func(i int) FileDescriptor { return FileDescriptor(i) })

	fs.root.cwds++
	return &Proc {
		log:		fs.log.With("src", "Proc"),
		fs:			fs,
		cwd:		fs.root,
		fdTable:	make(map[FileDescriptor]*file),
		fds:		fds,
	}
}

func (p *Proc) Open(path string, flags uint32) (FileDescriptor, error) {
	n, err := p.fs.resolve(p.cwd, path)
	if err != nil {
		if !errors.Is(err, ErrNotExist) || flags & O_CREAT == 0 { return -1, err }
		n, err = p.fs.createFile(p.cwd, path)
		if err != nil { return -1, err }
	}
	if n.isDir() { return -1, ErrIsDir }

	fd, ok := p.fds.TryPop()
	if !ok { return -1, ErrNoFD }

	p.fdTable[fd] = &file{node: n, ino: n.ino.Clone(), flags: flags}
	return fd, nil
}

func (p *Proc) get(fd FileDescriptor) (*file, error) {
	f, found := p.fdTable[fd]
	if !found { return nil, ErrBadFD }
	return f, nil
}

func (p *Proc) Read(fd FileDescriptor, dst []byte) (int, error) {
	f, err := p.get(fd)
	if err != nil { return 0, err }
	if !f.readable() { return 0, ErrPermission }

	r := f.ino.Borrow()
	n, err := r.Get().readAt(dst, f.off)
	r.Done()
	f.off += n
	return n, err
}

func (p *Proc) Write(fd FileDescriptor, src []byte) (int, error) {
	f, err := p.get(fd)
	if err != nil { return 0, err }
	if !f.writable() { return 0, ErrPermission }

	m := f.ino.BorrowMut()
	ino := m.Get()
	if f.flags & O_APPEND != 0 {
		f.off = ino.size
	}
	if f.off > c.FS_MAX_FILE_SIZE - len(src) {
		m.Done()
		return 0, fmt.Errorf("%w: %d bytes at offset %d", ErrFileTooLarge, len(src), f.off)
	}
	n := ino.writeAt(p.fs.blocks, src, f.off)
	m.Done()
	f.off += n
	return n, nil
}

func (p *Proc) Seek(fd FileDescriptor, off int, whence Whence) (int, error) {
	f, err := p.get(fd)
	if err != nil { return 0, err }

	var base int
	switch whence {
	case SeekSet:
		base = 0
	case SeekCur:
		base = f.off
	case SeekEnd:
		ino := f.ino.Get()
		base = ino.Size()
	default:
		return 0, ErrInvalidArg
	}

	pos := base + off
	if pos < 0 { return 0, ErrInvalidArg }
	f.off = pos
	return pos, nil
}

func (p *Proc) Close(fd FileDescriptor) error {
	f, err := p.get(fd)
	if err != nil { return err }

	delete(p.fdTable, fd)
	f.ino.Release()
	p.fds.Push(fd)
	return nil
}

// Closes every open descriptor and leaves the working directory for root.
func (p *Proc) Exit() {
	for fd := range p.fdTable {
		p.Close(fd)
	}
	p.setCwd(p.fs.root)
	p.log.Debug("Exit")
}

func (p *Proc) Unlink(path string) error {
	return p.fs.unlink(p.cwd, path)
}

func (p *Proc) Mkdir(path string) error {
	return p.fs.mkdir(p.cwd, path)
}

func (p *Proc) Chdir(path string) error {
	n, err := p.fs.resolve(p.cwd, path)
	if err != nil { return err }
	if !n.isDir() { return ErrNotDir }
	p.setCwd(n)
	return nil
}

// A directory can't be unlinked while some proc has it as cwd.
func (p *Proc) setCwd(n *node) {
	p.cwd.cwds--
	n.cwds++
	p.cwd = n
}

func (p *Proc) Stat(path string) (FileInfo, error) {
	n, err := p.fs.resolve(p.cwd, path)
	if err != nil { return FileInfo{}, err }
	return p.fs.stat(n), nil
}

// Works on unlinked files too.
func (p *Proc) Fstat(fd FileDescriptor) (FileInfo, error) {
	f, err := p.get(fd)
	if err != nil { return FileInfo{}, err }
	r := f.ino.Borrow()
	fi := FileInfo{Name: f.node.name, Size: r.Get().Size(), Blocks: r.Get().BlockCnt()}
	r.Done()
	return fi, nil
}
