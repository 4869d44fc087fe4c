// SPDX-License-Identifier: MIT

package storage

import "github.com/apache/arrow-go/v18/parquet/compress"

// compressionCodec is applied to every column chunk.
var compressionCodec = compress.Codecs.Snappy
