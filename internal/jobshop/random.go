package jobshop

import "math/rand"

// Random генерирует задачу в стиле Тайяра: каждая работа посещает каждую машину
// ровно один раз в случайном порядке, длительности равномерны в [minTime, maxTime].
func Random(jobs, machines, minTime, maxTime int, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if minTime <= 0 || maxTime < minTime {
		panic("некорректные границы длительностей")
	}
	times := make([][]int, jobs)
	routing := make([][]int, jobs)
	span := maxTime - minTime + 1
	for j := 0; j < jobs; j++ {
		times[j] = make([]int, machines)
		for k := range times[j] {
			times[j][k] = minTime
			if span > 1 {
				times[j][k] += rng.Intn(span)
			}
		}
		routing[j] = rng.Perm(machines)
	}
	inst, err := Build(times, routing)
	if err != nil {
		panic(err)
	}
	return inst
}
