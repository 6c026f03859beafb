package imports

import "testing"

// resolveCase drives one import through Extract and checks the single edge
// it produces.
type resolveCase struct {
	name         string
	files        map[string]string
	from         string
	wantTo       string
	wantResolved bool
}

func runResolveCases(t *testing.T, cases []resolveCase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			snap := testSnapshot(t, tt.files)
			edges, err := Extract(snap, tt.from)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if len(edges) != 1 {
				t.Fatalf("expected 1 edge, got %d: %v", len(edges), edges)
			}
			if edges[0].To != tt.wantTo {
				t.Errorf("expected edge to %q, got %q", tt.wantTo, edges[0].To)
			}
			if edges[0].Resolved != tt.wantResolved {
				t.Errorf("expected resolved=%v, got %v", tt.wantResolved, edges[0].Resolved)
			}
		})
	}
}

func Test_resolve_Go(t *testing.T) {
	runResolveCases(t, []resolveCase{
		{
			name: "internal package",
			files: map[string]string{
				"go.mod":             "module example.com/app\n",
				"cmd/app/main.go":    "package main\n\nimport \"example.com/app/server\"\n",
				"server/server.go":   "package server\n",
				"server/handlers.go": "package server\n",
			},
			from:         "cmd/app/main.go",
			wantTo:       "server",
			wantResolved: true,
		},
		{
			name: "internal path without Go files",
			files: map[string]string{
				"go.mod":       "module example.com/app\n",
				"main.go":      "package main\n\nimport \"example.com/app/docs\"\n",
				"docs/spec.md": "# docs\n",
			},
			from:         "main.go",
			wantTo:       "example.com/app/docs",
			wantResolved: false,
		},
		{
			name: "no module file",
			files: map[string]string{
				"main.go":      "package main\n\nimport \"example.com/app/util\"\n",
				"util/util.go": "package util\n",
			},
			from:         "main.go",
			wantTo:       "example.com/app/util",
			wantResolved: false,
		},
	})
}

func Test_resolve_Python(t *testing.T) {
	runResolveCases(t, []resolveCase{
		{
			name: "relative sibling module",
			files: map[string]string{
				"pkg/app.py":     "from .helpers import run\n",
				"pkg/helpers.py": "def run(): pass\n",
			},
			from:         "pkg/app.py",
			wantTo:       "pkg/helpers.py",
			wantResolved: true,
		},
		{
			name: "parent relative import",
			files: map[string]string{
				"pkg/sub/job.py": "from ..models import User\n",
				"pkg/models.py":  "class User: pass\n",
			},
			from:         "pkg/sub/job.py",
			wantTo:       "pkg/models.py",
			wantResolved: true,
		},
		{
			name: "absolute import under src layout",
			files: map[string]string{
				"src/app/main.py":   "import app.config\n",
				"src/app/config.py": "DEBUG = False\n",
			},
			from:         "src/app/main.py",
			wantTo:       "src/app/config.py",
			wantResolved: true,
		},
		{
			name: "package resolves to init file",
			files: map[string]string{
				"app/main.py":            "import app.models\n",
				"app/models/__init__.py": "",
			},
			from:         "app/main.py",
			wantTo:       "app/models/__init__.py",
			wantResolved: true,
		},
		{
			name: "third party stays external",
			files: map[string]string{
				"app/main.py": "import requests\n",
			},
			from:         "app/main.py",
			wantTo:       "requests",
			wantResolved: false,
		},
	})
}

func Test_resolve_JavaScript(t *testing.T) {
	runResolveCases(t, []resolveCase{
		{
			name: "relative with extension probe",
			files: map[string]string{
				"src/app.ts":  "import { format } from './util';\n",
				"src/util.ts": "export function format() {}\n",
			},
			from:         "src/app.ts",
			wantTo:       "src/util.ts",
			wantResolved: true,
		},
		{
			name: "directory resolves to index file",
			files: map[string]string{
				"src/app.tsx":               "import App from './components';\n",
				"src/components/index.tsx":  "export default function App() {}\n",
				"src/components/Button.tsx": "export function Button() {}\n",
			},
			from:         "src/app.tsx",
			wantTo:       "src/components/index.tsx",
			wantResolved: true,
		},
		{
			name: "require form",
			files: map[string]string{
				"lib/main.js":    "const helpers = require('./helpers');\n",
				"lib/helpers.js": "module.exports = {};\n",
			},
			from:         "lib/main.js",
			wantTo:       "lib/helpers.js",
			wantResolved: true,
		},
		{
			name: "bare specifier stays external",
			files: map[string]string{
				"src/app.ts": "import React from 'react';\n",
			},
			from:         "src/app.ts",
			wantTo:       "react",
			wantResolved: false,
		},
	})
}

func Test_resolve_Rust(t *testing.T) {
	runResolveCases(t, []resolveCase{
		{
			name: "mod declaration to sibling file",
			files: map[string]string{
				"src/main.rs":   "mod config;\n",
				"src/config.rs": "pub struct Settings;\n",
			},
			from:         "src/main.rs",
			wantTo:       "src/config.rs",
			wantResolved: true,
		},
		{
			name: "mod declaration to directory",
			files: map[string]string{
				"src/main.rs":       "mod routes;\n",
				"src/routes/mod.rs": "pub fn register() {}\n",
			},
			from:         "src/main.rs",
			wantTo:       "src/routes/mod.rs",
			wantResolved: true,
		},
		{
			name: "crate use with item segment",
			files: map[string]string{
				"src/handlers.rs": "use crate::config::Settings;\n",
				"src/config.rs":   "pub struct Settings;\n",
			},
			from:         "src/handlers.rs",
			wantTo:       "src/config.rs",
			wantResolved: true,
		},
		{
			name: "super use",
			files: map[string]string{
				"src/api/routes.rs": "use super::db::pool;\n",
				"src/db.rs":         "pub fn pool() {}\n",
			},
			from:         "src/api/routes.rs",
			wantTo:       "src/db.rs",
			wantResolved: true,
		},
		{
			name: "external crate stays external",
			files: map[string]string{
				"src/main.rs": "use serde::Deserialize;\n",
			},
			from:         "src/main.rs",
			wantTo:       "serde::Deserialize",
			wantResolved: false,
		},
	})
}

func Test_resolve_Classpath(t *testing.T) {
	runResolveCases(t, []resolveCase{
		{
			name: "java under source root",
			files: map[string]string{
				"src/main/java/com/acme/App.java":          "import com.acme.util.Strings;\n",
				"src/main/java/com/acme/util/Strings.java": "package com.acme.util;\n",
			},
			from:         "src/main/java/com/acme/App.java",
			wantTo:       "src/main/java/com/acme/util/Strings.java",
			wantResolved: true,
		},
		{
			name: "kotlin under source root",
			files: map[string]string{
				"app/src/com/acme/Main.kt":       "import com.acme.data.Store\n",
				"app/src/com/acme/data/Store.kt": "package com.acme.data\n",
			},
			from:         "app/src/com/acme/Main.kt",
			wantTo:       "app/src/com/acme/data/Store.kt",
			wantResolved: true,
		},
		{
			name: "jdk class stays external",
			files: map[string]string{
				"App.java": "import java.util.List;\n",
			},
			from:         "App.java",
			wantTo:       "java.util.List",
			wantResolved: false,
		},
	})
}

func Test_resolve_Include(t *testing.T) {
	runResolveCases(t, []resolveCase{
		{
			name: "quoted sibling header",
			files: map[string]string{
				"src/main.c": "#include \"util.h\"\n",
				"src/util.h": "#pragma once\n",
			},
			from:         "src/main.c",
			wantTo:       "src/util.h",
			wantResolved: true,
		},
		{
			name: "quoted header under include root",
			files: map[string]string{
				"src/main.c":           "#include \"app/config.h\"\n",
				"include/app/config.h": "#pragma once\n",
			},
			from:         "src/main.c",
			wantTo:       "include/app/config.h",
			wantResolved: true,
		},
		{
			name: "system header stays external",
			files: map[string]string{
				"src/main.c": "#include <stdio.h>\n",
			},
			from:         "src/main.c",
			wantTo:       "stdio.h",
			wantResolved: false,
		},
	})
}
