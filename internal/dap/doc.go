/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

/*
Package dap implements a launch-only Debug Adapter Protocol (DAP) front-end for DreamSeeker.

# Architecture Overview

A Session reads complete DAP messages from a Transport, decodes the envelope,
dispatches requests to command handlers and writes exactly one response per request.
Handlers may emit events while they run; every outgoing message draws its sequence
number from a single per-session counter, so responses and events are numbered in
the order they are written.

# Supported Commands

  - initialize: records the client capabilities and advertises the adapter capabilities
  - launch: starts the DreamSeeker executable with the requested .dmb file
  - disconnect: terminates the debuggee (exited event) or detaches from it (terminated event)

Breakpoints, stepping, variable inspection and attach mode are not supported.

# Message Loop

The loop is single-threaded: a request is fully handled and answered before the
next message is read. The only background work is reaping a detached debuggee,
which is owned exclusively by the reaper once handed over.
*/
package dap
