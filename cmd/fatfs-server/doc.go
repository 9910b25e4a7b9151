/*
Copyright 2012 Google Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command fatfs-server runs the file-system server core against a FAT
// volume image, exposing it through pkg/fsserver's in-memory protocol
// queues. It is meant as a standalone way to exercise the server core
// outside of its eventual microkernel component wiring: a real
// deployment hands the dispatcher a shared-memory-backed BlockTransport
// and protocol queues instead of the in-process ones this binary
// constructs.
package main
