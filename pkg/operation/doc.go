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
Package operation handles the "perform single action" trigger.

🎯 Purpose:
- Resolve the active target (browser page, HTML document, clipboard)
- Build the rule set from the configuration store
- Rewrite the target's fields and persist them when needed
- Tell the user what happened

🔄 Flow:

	Resolve ──▶ rules.FromSource ──▶ no active rules? ──yes──▶ banner: "Please provide text..."
	   │                                   │
	   │ ErrNoActiveTarget                 no
	   ▼                                   ▼
	notification              Collect ──▶ replace.Apply ──▶ Commit (if > 0) ──▶ banner: N / no changes
	                                 │
	                                 └── any error ──▶ banner: error (or notification)

⚡ Invocations are independent: every call gets its own id, reads the store
once and discovers fields afresh. The Runner performs one invocation per
document, sequentially or concurrently.

🔍 Example:

	outcome, err := operation.PerformSingleAction(ctx, operation.Options{
		Resolver: operation.PageResolver(session),
		Store:    store,
		Notifier: feedback.NewConsoleNotifier(os.Stderr),
	})
*/
package operation
