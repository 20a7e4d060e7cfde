package services

import (
	"bytes"
	"fmt"

	"github.com/rwcarlsen/goexif/exif"
)

// ExtractImageMetadata pulls embedded technical metadata out of an image:
// capture device, original timestamp, pixel dimensions, GPS position,
// software, authorship and embedded description. Returns nil when the image
// carries no metadata or extraction fails - failure here never surfaces to
// the user, the metadata is an enrichment input for vision analysis and an
// audit trail on the document record.
func ExtractImageMetadata(data []byte) map[string]string {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	meta := map[string]string{}

	setTag := func(key string, field exif.FieldName) {
		tag, err := x.Get(field)
		if err != nil {
			return
		}
		if value, err := tag.StringVal(); err == nil && value != "" {
			meta[key] = value
			return
		}
		// Non-string tags (dimensions, counts) render via the tag formatter
		if value := tag.String(); value != "" && value != `""` {
			meta[key] = value
		}
	}

	setTag("cameraMake", exif.Make)
	setTag("cameraModel", exif.Model)
	setTag("software", exif.Software)
	setTag("artist", exif.Artist)
	setTag("copyright", exif.Copyright)
	setTag("description", exif.ImageDescription)
	setTag("pixelWidth", exif.PixelXDimension)
	setTag("pixelHeight", exif.PixelYDimension)

	if taken, err := x.DateTime(); err == nil {
		meta["dateTimeOriginal"] = taken.Format("2006-01-02 15:04:05")
	}

	if lat, long, err := x.LatLong(); err == nil {
		meta["gpsLatitude"] = fmt.Sprintf("%.6f", lat)
		meta["gpsLongitude"] = fmt.Sprintf("%.6f", long)
	}

	if len(meta) == 0 {
		return nil
	}
	return meta
}
