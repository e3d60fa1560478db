package lead

// SampleImages are the QR images offered on the selection step.
// They are illustrative only and never decoded.
//
//nolint:gochecknoglobals // fixed catalogue
var SampleImages = []string{
	"https://images.unsplash.com/photo-1472214103451-9374bd1c798e?w=300&h=200&fit=crop",
	"https://images.unsplash.com/photo-1494790108755-2616c6d53499?w=300&h=200&fit=crop",
	"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=300&h=200&fit=crop",
	"https://images.unsplash.com/photo-1517841905240-472988babdf9?w=300&h=200&fit=crop",
}

// ImageIndex returns the position of url in SampleImages, or -1.
func ImageIndex(url string) int {
	for i, img := range SampleImages {
		if img == url {
			return i
		}
	}

	return -1
}
