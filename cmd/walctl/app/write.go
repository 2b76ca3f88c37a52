package app

import (
	"bufio"
	"fmt"
	"io"

	"logwriter/cmd/walctl/app/options"
	"logwriter/pkg/wal/logfile"

	"github.com/fatih/color"
	"k8s.io/klog/v2"
)

const maxLineSize = 16 << 20

func runWrite(opts *options.WriteOptions, args []string, in io.Reader, out io.Writer) error {
	l, err := logfile.Create(opts.Dir, opts.Number, opts.LogfileOptions())
	if err != nil {
		return err
	}

	count := 0
	add := func(record []byte) error {
		if err := l.AddRecord(record); err != nil {
			return fmt.Errorf("record %d: %w", count, err)
		}
		count++
		return nil
	}

	if len(args) > 0 {
		for _, arg := range args {
			if err = add([]byte(arg)); err != nil {
				break
			}
		}
	} else {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), maxLineSize)
		for err == nil && scanner.Scan() {
			err = add(scanner.Bytes())
		}
		if err == nil {
			err = scanner.Err()
		}
	}

	size := l.Size()
	if cerr := l.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		klog.Errorf("Write log %d: %v", opts.Number, err)
		return err
	}

	klog.V(1).Infof("Wrote %d records to %s", count, l.Name())
	fmt.Fprintf(out, "%v Wrote %d records (%d bytes) to %s\n", color.GreenString("==>"), count, size, l.Name())
	return nil
}
