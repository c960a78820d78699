/*
Package cpus supports working with CPU lists and sets, as well as querying the
CPUs currently assigned to tasks and pinning tasks to specific CPU sets.

Logically, [List] and [Set] are equivalent, as they both represent sets of one
or more logical CPUs. Each logical CPU is identified by their 0-based CPU
number. The difference between List and Set lies in their internal
representations, mirroring different representation forms in the Linux syscalls
and procfs pseudo files.

  - [List] internally stores CPU numbers as ranges, such as 1-4, 8-15.
  - [Set] internally stores CPU numbers as bits of a fixed capacity, such as
    (hex) ff1e.

[List.Set] converts a List into its corresponding Set of a given capacity. In
the opposite direction, [Set.List] converts a Set into its equivalent List.
[Set.Mask] renders a Set in the kernel's hexadecimal cpumask format.

[Possible], [Online] and [MaxCPUs] enumerate the CPUs of this system from
sysfs.
*/
package cpus
