package repo

import (
	"math"
	"sort"
)

// LanguageStat is the byte share of one language in a repository.
type LanguageStat struct {
	Name       string  `json:"name"`
	Bytes      int64   `json:"bytes"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// FileStats summarizes file counts and sizes.
type FileStats struct {
	TotalFiles       int    `json:"totalFiles"`
	TotalDirectories int    `json:"totalDirectories"`
	TotalSize        int64  `json:"totalSize"`
	AverageFileSize  int64  `json:"averageFileSize"`
	LargestFiles     []Item `json:"largestFiles"`
}

const largestFilesLimit = 10

// LanguageStats weights languages by file size. Percentages are rounded to
// one decimal; entries are sorted by bytes descending, then by name.
func LanguageStats(t Tree) []LanguageStat {
	bytes := make(map[string]int64)
	var total int64
	for _, item := range t {
		if !item.IsFile() || HasSegment(item.Path, excludedTreePaths) {
			continue
		}
		lang := StatsLanguage(item.Path)
		if lang == "" {
			continue
		}
		bytes[lang] += item.Size
		total += item.Size
	}
	if total == 0 {
		return nil
	}

	stats := make([]LanguageStat, 0, len(bytes))
	for lang, n := range bytes {
		stats = append(stats, LanguageStat{
			Name:       lang,
			Bytes:      n,
			Percentage: math.Round(float64(n)/float64(total)*1000) / 10,
			Color:      LanguageColor(lang),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Bytes != stats[j].Bytes {
			return stats[i].Bytes > stats[j].Bytes
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}

// ComputeFileStats returns totals, the mean file size and the largest files.
func ComputeFileStats(t Tree) FileStats {
	var s FileStats
	var files []Item
	for _, item := range t {
		switch item.Kind {
		case KindFile:
			s.TotalFiles++
			s.TotalSize += item.Size
			files = append(files, item)
		case KindDirectory:
			s.TotalDirectories++
		}
	}
	if s.TotalFiles > 0 {
		s.AverageFileSize = s.TotalSize / int64(s.TotalFiles)
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].Size > files[j].Size })
	if len(files) > largestFilesLimit {
		files = files[:largestFilesLimit]
	}
	s.LargestFiles = files
	return s
}
