package app

import (
	"fmt"
	"io"

	"logwriter/cmd/walctl/app/options"
	"logwriter/pkg/wal/logfile"

	"github.com/fatih/color"
	"k8s.io/klog/v2"
)

func runVerify(opts *options.LogOptions, out io.Writer) error {
	r, c, err := logfile.Open(opts.Dir, opts.Number)
	if err != nil {
		return err
	}
	defer c.Close()

	var records, bytes int
	for {
		record, err := r.ReadRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%v log %d: record %d: %v\n", color.RedString("Corrupted:"), opts.Number, records, err)
			return err
		}
		records++
		bytes += len(record)
	}

	klog.V(1).Infof("Verified log %d: records=%d", opts.Number, records)
	fmt.Fprintf(out, "%v log %d: %d records, %d bytes\n", color.GreenString("OK:"), opts.Number, records, bytes)
	return nil
}
