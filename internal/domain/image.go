/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var imageMIMEByExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ImageFromFile reads an image file and wraps it as a JournalImage with the
// bytes base64-encoded into a data URL. The MIME type is derived from the
// file extension.
func ImageFromFile(path string) (JournalImage, error) {
	mime, ok := imageMIMEByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return JournalImage{}, fmt.Errorf("unsupported image extension %q", filepath.Ext(path))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return JournalImage{}, err
	}
	data := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(raw))
	return JournalImage{Data: data, Type: mime}, nil
}
