// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package auth

import (
	"context"
)

// AdminRole is the role granted to an elevated context.
const AdminRole = "admin"

type contextKey struct{}

// Context is the authorization context of a request caller.
// It is carried through the Go context of a request and is never
// mutated once installed there.
type Context struct {
	UserID    string   `json:"user_id,omitempty"`
	ProjectID string   `json:"project_id,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	IsAdmin   bool     `json:"is_admin,omitempty"`
}

// HasRole returns whether the context was granted the role.
func (c *Context) HasRole(role string) bool {
	if c == nil {
		return false
	}
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Elevated returns a copy of the context with admin rights. The receiver
// is left untouched.
func (c *Context) Elevated() *Context {
	elevated := &Context{IsAdmin: true}
	if c != nil {
		elevated.UserID = c.UserID
		elevated.ProjectID = c.ProjectID
		elevated.Roles = make([]string, len(c.Roles), len(c.Roles)+1)
		copy(elevated.Roles, c.Roles)
	}
	if !elevated.HasRole(AdminRole) {
		elevated.Roles = append(elevated.Roles, AdminRole)
	}
	return elevated
}

// NewContext returns a copy of parent carrying the auth context.
func NewContext(parent context.Context, c *Context) context.Context {
	return context.WithValue(parent, contextKey{}, c)
}

// FromContext returns the auth context carried by ctx. Callers which never
// installed one get an anonymous, non-admin context.
func FromContext(ctx context.Context) *Context {
	if c, ok := ctx.Value(contextKey{}).(*Context); ok && c != nil {
		return c
	}
	return &Context{}
}

// IsElevated returns whether ctx carries an admin auth context.
func IsElevated(ctx context.Context) bool {
	return FromContext(ctx).IsAdmin
}
