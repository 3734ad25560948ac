// Package model defines the normalized interface between handlers and
// language-model providers: a synchronous request/response shape with
// function calling, vendor adapters in sub-packages, and a deterministic
// MockModel for tests. Provider transport errors are classified onto the
// core failure taxonomy so retry and fallback logic never branches per
// vendor.
package model
