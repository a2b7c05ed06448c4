package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrStateLocked indicates another process is writing the same state location.
var ErrStateLocked = errors.New("state is in use by another process")

// LockedError describes the process holding a state lock.
type LockedError struct {
	Location string
	// PID is zero when the holder did not identify itself.
	PID int
}

func (err *LockedError) Error() string {
	if err.PID > 0 {
		return fmt.Sprintf("%s (pid %d holds %s)", ErrStateLocked, err.PID, err.Location)
	}
	return fmt.Sprintf("%s (%s)", ErrStateLocked, err.Location)
}

func (err *LockedError) Unwrap() error { return ErrStateLocked }

// StateLock serializes writers of one state location across processes.
// It holds a localhost port derived from the location and answers callers with its pid.
type StateLock struct {
	appName  string
	listener net.Listener
	done     chan struct{}
}

// LockState takes the lock for location or returns a *LockedError.
func LockState(appName, location string) (*StateLock, error) {
	address := lockAddress(appName, location)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, &LockedError{Location: location, PID: holderPID(appName, address)}
	}

	lock := &StateLock{appName: appName, listener: listener, done: make(chan struct{})}
	go lock.serve()
	return lock, nil
}

// Unlock frees the lock. It is safe on a nil or already released lock.
func (lock *StateLock) Unlock() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	<-lock.done
	lock.listener = nil
	return err
}

func (lock *StateLock) serve() {
	defer close(lock.done)
	greeting := fmt.Sprintf("%s %d\n", lock.appName, os.Getpid())
	for {
		conn, err := lock.listener.Accept()
		if err != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
		_, _ = conn.Write([]byte(greeting))
		_ = conn.Close()
	}
}

// holderPID asks the lock holder for its pid; anything unexpected yields 0.
func holderPID(appName, address string) int {
	conn, err := net.DialTimeout("tcp", address, 250*time.Millisecond)
	if err != nil {
		return 0
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(250 * time.Millisecond))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return 0
	}
	name, rawPID, ok := strings.Cut(strings.TrimSpace(line), " ")
	if !ok || name != appName {
		return 0
	}
	pid, err := strconv.Atoi(rawPID)
	if err != nil {
		return 0
	}
	return pid
}

func lockAddress(appName, location string) string {
	const (
		firstPort = 20000
		portCount = 20000
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	_, _ = hash.Write([]byte{0})
	_, _ = hash.Write([]byte(location))
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(firstPort+int(hash.Sum32()%portCount)))
}
