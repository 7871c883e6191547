// Package watch reports changes to BIOM table files.
//
// A FileWatcher watches a single table or a directory tree with fsnotify.
// Events for files with a table extension are debounced per path, so an
// editor that writes a file in several steps produces one callback once the
// file has been quiet for the debounce interval.
//
// Basic usage:
//
//	fw, err := watch.NewFileWatcher(watch.Config{
//		Path:             "tables/",
//		DebounceInterval: 250 * time.Millisecond,
//		Extensions:       []string{".biom", ".json"},
//		SkipHidden:       true,
//	}, nil)
//	if err != nil {
//		return err
//	}
//	defer fw.Stop()
//
//	err = fw.Watch(ctx, func(ctx context.Context, ev watch.Event) {
//		if ev.Op == watch.OpRemove {
//			return
//		}
//		revalidate(ev.Path)
//	})
package watch
