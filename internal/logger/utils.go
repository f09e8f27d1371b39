package logger

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// goroutineID parses the goroutine id from the stack header.
func goroutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// consoleFormatCallerLastTwoDirs shortens the caller to the last two
// directories and the file name. Meant for console output during development.
func consoleFormatCallerLastTwoDirs(i interface{}) string {
	c, _ := i.(string)
	if c == "" {
		return c
	}
	split := strings.Split(c, string(os.PathSeparator))
	switch l := len(split); {
	case l > 2:
		return fmt.Sprintf("%s/%s/%s", split[l-3], split[l-2], split[l-1])
	case l > 1:
		return fmt.Sprintf("%s/%s", split[l-2], split[l-1])
	}
	return c
}
