// Copyright 2026 fanjia1024
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

package builtin

import (
	"research-agent/internal/tool/registry"
)

// RegisterBuiltin 注册全部内置研究工具
func RegisterBuiltin(reg *registry.Registry) {
	if reg == nil {
		return
	}
	reg.Register(NewSearchTool())
	reg.Register(NewDocumentTool())
	reg.Register(NewAnalysisTool())
}
