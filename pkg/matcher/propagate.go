package matcher

import (
	"fmt"

	"github.com/classmatch/classmatch/pkg/entity"
)

// PropagateNames spreads mapped method and argument names across override
// hierarchies on side B. A hierarchy is visited once; members that already
// carry a name keep it. Returns whether anything was propagated.
func (m *Matcher) PropagateNames(progress ProgressFunc) bool {
	classes := m.env.ClassesB()
	total := len(classes)
	checked := make(map[*entity.Method]bool)
	propagatedMethodNames := 0
	propagatedArgNames := 0

	for current, cls := range classes {
		for _, method := range cls.Methods() {
			hierarchy := method.HierarchyMembers()
			if len(hierarchy) <= 1 || checked[method] {
				continue
			}

			for _, member := range hierarchy {
				checked[member] = true
			}

			name := method.MappedName()
			if name != "" && method.HasAllArgsMapped() {
				continue
			}

			// Collect the first mapped method name and the first mapped
			// name per argument slot found anywhere in the hierarchy.
			argCount := len(method.Args())
			argNames := make([]string, argCount)
			missingArgNames := argCount

		collect:
			for _, member := range hierarchy {
				if name == "" {
					if name = member.MappedName(); name != "" && missingArgNames == 0 {
						break
					}
				}

				if missingArgNames > 0 && len(member.Args()) == argCount {
					for i := 0; i < argCount; i++ {
						if argNames[i] != "" {
							continue
						}

						if argNames[i] = member.Arg(i).MappedName(); argNames[i] != "" {
							missingArgNames--

							if name != "" && missingArgNames == 0 {
								break collect
							}
						}
					}
				}
			}

			if name == "" && missingArgNames == argCount {
				continue
			}

			// Hand the collected names to every member that still lacks one.
			for _, member := range hierarchy {
				if name != "" && !member.HasMappedName() {
					member.SetMappedName(name)
					propagatedMethodNames++
				}

				for i := 0; i < argCount && i < len(member.Args()); i++ {
					if argNames[i] != "" && !member.Arg(i).HasMappedName() {
						member.Arg(i).SetMappedName(argNames[i])
						propagatedArgNames++
					}
				}
			}
		}

		if progress != nil && (current+1)%16 == 0 {
			progress(float64(current+1) / float64(total))
		}
	}

	fmt.Fprintf(m.out, "Propagated %d method names, %d method arg names.\n",
		propagatedMethodNames, propagatedArgNames)

	return propagatedMethodNames > 0 || propagatedArgNames > 0
}
