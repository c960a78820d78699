/*
Package affinity deterministically maps worker threads onto CPUs.

An [Affinity] is created once for a system's number of CPUs, typically
[cpus.MaxCPUs]. It then resolves textual CPU range specifications, such as
“1-2,4-5” or “0-7!”, into a [Resolution]: either [Unrestricted] or
[Restricted] to an explicit CPU set. Finally, [Affinity.Assign] picks the CPU
for the n-th worker thread, distributing threads round-robin across the
allowed CPUs in ascending CPU number order.

Not being able to query the process's CPU affinity and having no CPUs to run
on are unrecoverable conditions; see [WithFatalHandler].
*/
package affinity
