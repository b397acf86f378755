package cache

import (
	"encoding/json"
	"os"
	"time"
)

// Info summarizes a cache file without taking ownership of it
type Info struct {
	Path         string
	Size         int64
	ModTime      time.Time
	Entries      int
	Alternatives int
}

// Stat reads the cache file at path. A missing file yields an empty Info.
// Undecodable content leaves the counts at zero, and entries without
// alternatives are not counted, matching what New would load.
func Stat(path string) (*Info, error) {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &Info{Path: path}, nil
	}
	if err != nil {
		return nil, err
	}
	info := &Info{Path: path, Size: fi.Size(), ModTime: fi.ModTime()}

	data, err := os.ReadFile(path)
	if err != nil {
		return info, nil
	}
	var entries map[string]*Entry
	if json.Unmarshal(data, &entries) != nil {
		return info, nil
	}
	for _, e := range entries {
		if e == nil || len(e.Alternatives) == 0 {
			continue
		}
		info.Entries++
		info.Alternatives += len(e.Alternatives)
	}
	return info, nil
}
