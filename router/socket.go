/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package router

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// bindListener opens a non-blocking IPv4 TCP listening socket on ip:port.
func bindListener(ip string, port uint16) (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK, 0)
	if err != nil {
		return -1, err
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return -1, err
	}

	addr, err := addrBytes(ip)
	if err != nil {
		_ = unix.Close(fd)
		return -1, err
	}

	sa := &unix.SockaddrInet4{Port: int(port), Addr: addr}

	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return -1, err
	}

	if err := unix.Listen(fd, 128); err != nil {
		_ = unix.Close(fd)
		return -1, err
	}

	return fd, nil
}

func addrBytes(ip string) ([4]byte, error) {
	var out [4]byte

	parsed := net.ParseIP(ip)
	if parsed == nil {
		// hostname fallback: resolve, preferring the first IPv4 result.
		ips, err := net.LookupIP(ip)
		if err != nil {
			return out, fmt.Errorf("resolve %q: %w", ip, err)
		}

		for _, candidate := range ips {
			if v4 := candidate.To4(); v4 != nil {
				parsed = candidate
				break
			}
		}

		if parsed == nil {
			return out, fmt.Errorf("no IPv4 address for %q", ip)
		}
	}

	v4 := parsed.To4()
	if v4 == nil {
		return out, fmt.Errorf("%q is not an IPv4 address", ip)
	}

	copy(out[:], v4)
	return out, nil
}

// isAddrInUse reports whether err is the kernel's EADDRINUSE, the one
// bind failure AddServer is allowed to absorb rather than propagate.
func isAddrInUse(err error) bool {
	return err == unix.EADDRINUSE
}

// acceptOne accepts exactly one pending connection from a listening fd. It
// returns unix.EAGAIN, unwrapped, when the backlog is drained.
func acceptOne(listenFd int) (fd int, remote string, err error) {
	nfd, sa, err := unix.Accept4(listenFd, unix.SOCK_NONBLOCK)
	if err != nil {
		return -1, "", err
	}

	return nfd, sockaddrString(sa), nil
}

func sockaddrString(sa unix.Sockaddr) string {
	if v4, ok := sa.(*unix.SockaddrInet4); ok {
		ip := net.IPv4(v4.Addr[0], v4.Addr[1], v4.Addr[2], v4.Addr[3])
		return fmt.Sprintf("%s:%d", ip.String(), v4.Port)
	}

	return ""
}
