// Command pagedump prints a page's header and slot array for debugging.
// It treats the page file as a flat array of fixed-size int64/bytes leaf
// pages; point it at a different registry by editing the Config/Registry
// construction below if your store uses a different key/value shape.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/coldwave-db/sebtree/page"
	"github.com/coldwave-db/sebtree/pagebuf"
)

func main() {
	path := flag.String("file", "", "page store file")
	index := flag.Uint64("page", 0, "page index to dump")
	pageSize := flag.Int("page-size", 4096, "page size in bytes")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "pagedump: -file is required")
		os.Exit(2)
	}

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	pool, err := pagebuf.OpenPool(*path, *pageSize, int(*index)+1, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pagedump:", err)
		os.Exit(1)
	}
	defer pool.Close()

	cfg := page.Config{PageSize: uint32(*pageSize), InlineKeyThreshold: 32, InlineValueThreshold: 64}
	reg := page.Int64Registry[[]byte](page.UnboundedBytesEncoder{})
	n := page.New[int64, []byte](pool.Page(*index), cfg, reg, page.OrderedComparator[int64]())

	if err := n.BeginRead(); err != nil {
		fmt.Fprintln(os.Stderr, "pagedump:", err)
		os.Exit(1)
	}
	defer n.EndRead()

	fmt.Printf("page %d: leaf=%v size=%d freeDataPosition=%d freeBytes=%d\n",
		n.PageIndex(), n.IsLeaf(), n.GetSize(), n.GetFreeDataPosition(), n.GetFreeBytes())
	if !n.IsLeaf() {
		fmt.Printf("  markerCount=%d\n", n.MarkerCount())
	}

	for i := 0; i < n.GetSize(); i++ {
		key := n.KeyAt(i)
		if n.IsLeaf() {
			if n.HasRecordFlags() && n.IsTombstoneRecord(i) {
				fmt.Printf("  [%d] key=%v tombstone\n", i, key)
				continue
			}
			fmt.Printf("  [%d] key=%v value=%v\n", i, key, n.ValueAt(i))
		} else {
			fmt.Printf("  [%d] key=%v pointer=%d\n", i, key, n.PointerAtIndex(i))
		}
	}
}
