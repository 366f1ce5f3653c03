package graph

import "fmt"

// GraphFileName returns the conventional file name for a serialized graph
// built for n nodes: "<basename>.<n>.bin_new".
func GraphFileName(basename string, n uint32) string {
	return fmt.Sprintf("%s.%d.bin_new", basename, n)
}

// CHFileName returns the conventional file name for serialized CH metadata
// built for n nodes: "<basename>.<n>.cn_meta".
func CHFileName(basename string, n uint32) string {
	return fmt.Sprintf("%s.%d.cn_meta", basename, n)
}
