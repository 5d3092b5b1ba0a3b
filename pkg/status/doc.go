// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package status writes rewritten documents back to disk and tracks what happened
to each of them.

🎯 Purpose:
- Read documents and write them back atomically
- Keep an optional .bak copy of the original
- Track per-document status (modified, unchanged, failed)
- Report progress over a batch of documents

🔄 Flow:

	read ──▶ rewrite fields ──▶ changed? ──yes──▶ backup ──▶ write .tmp ──▶ rename
	                               │
	                               └──no──▶ leave untouched

🔍 Example:

	mgr := status.New(".", logger)
	mgr.StartOperation(ctx, len(paths))

	content, err := mgr.ReadFile(ctx, path)
	...
	err = mgr.WriteFileAtomic(ctx, path, rendered)
	mgr.TrackDocument(ctx, status.DocumentInfo{Path: path, Status: status.StatusModified})
	mgr.Advance(ctx)

	mgr.FinishOperation(ctx)
*/
package status
