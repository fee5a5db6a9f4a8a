// Package hclflow loads process definitions written in HCL and builds them
// with the flowgraph node API.
//
// A file holds one or more flow blocks. Each node is a block labelled by
// its name; successors are referenced by name:
//
//	flow "leave-request" {
//	  version = "v1"
//
//	  start "begin" {
//	    activate = [approve]
//	  }
//
//	  view "approve" {
//	    role = var.approver
//	    view = "approve_form"
//	    next = [approved]
//	  }
//
//	  if "approved" {
//	    cond     = "is_approved"
//	    on_true  = done
//	    on_false = revise
//	  }
//
//	  view "revise" {
//	    view = "revise_form"
//	    next = [approve]
//	  }
//
//	  end "done" {}
//	}
//
// References are bare identifiers or strings. Callbacks (cond, job,
// on_receive) and view descriptors are looked up by name in Bindings; the
// Go functions themselves never appear in HCL.
//
// Problems are reported as hcl.Diagnostics carrying source ranges.
package hclflow
