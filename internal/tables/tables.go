// Package tables holds the constant lookup tables the floor synthesizers
// need: the inverse-dB table floor type 1 uses to turn its integer curve
// into linear magnitude, and the bark-scale mapping floor type 0 uses to
// turn LSP frequencies into spectral line indices.
package tables

import "math"

// InverseDB is the floor type 1 amplitude lookup: InverseDB[y] converts an
// integer curve value y in [0,255] to a linear magnitude multiplier. Every
// conformant Vorbis I decoder carries this exact 256-entry table.
//
// Source: Vorbis I reference decoder, floor1 synthesis (floor1_fromdB_LOOKUP).
var InverseDB = [256]float32{
	1.0649863e-07, 1.1341951e-07, 1.2079015e-07, 1.2863978e-07,
	1.3699951e-07, 1.4590251e-07, 1.5538408e-07, 1.6548181e-07,
	1.7623575e-07, 1.8768855e-07, 1.9988561e-07, 2.1287530e-07,
	2.2670913e-07, 2.4144197e-07, 2.5713223e-07, 2.7384213e-07,
	2.9163793e-07, 3.1059021e-07, 3.3077411e-07, 3.5226968e-07,
	3.7516214e-07, 3.9954229e-07, 4.2550680e-07, 4.5315863e-07,
	4.8260743e-07, 5.1396998e-07, 5.4737065e-07, 5.8294187e-07,
	6.2082472e-07, 6.6116941e-07, 7.0413592e-07, 7.4989464e-07,
	7.9862701e-07, 8.5052630e-07, 9.0579828e-07, 9.6466216e-07,
	1.0273513e-06, 1.0941144e-06, 1.1652161e-06, 1.2409384e-06,
	1.3215816e-06, 1.4074654e-06, 1.4989305e-06, 1.5963394e-06,
	1.7000785e-06, 1.8105592e-06, 1.9282195e-06, 2.0535261e-06,
	2.1869758e-06, 2.3290978e-06, 2.4804557e-06, 2.6416497e-06,
	2.8133190e-06, 2.9961443e-06, 3.1908506e-06, 3.3982101e-06,
	3.6190449e-06, 3.8542308e-06, 4.1047004e-06, 4.3714470e-06,
	4.6555282e-06, 4.9580707e-06, 5.2802740e-06, 5.6234160e-06,
	5.9888572e-06, 6.3780469e-06, 6.7925283e-06, 7.2339451e-06,
	7.7040476e-06, 8.2047000e-06, 8.7378876e-06, 9.3057248e-06,
	9.9104632e-06, 1.0554501e-05, 1.1240392e-05, 1.1970856e-05,
	1.2748789e-05, 1.3577278e-05, 1.4459606e-05, 1.5399272e-05,
	1.6400004e-05, 1.7465768e-05, 1.8600792e-05, 1.9809576e-05,
	2.1096914e-05, 2.2467911e-05, 2.3928002e-05, 2.5482978e-05,
	2.7139006e-05, 2.8902651e-05, 3.0780908e-05, 3.2781225e-05,
	3.4911534e-05, 3.7180282e-05, 3.9596466e-05, 4.2169667e-05,
	4.4910090e-05, 4.7828601e-05, 5.0936773e-05, 5.4246931e-05,
	5.7772202e-05, 6.1526565e-05, 6.5524908e-05, 6.9783085e-05,
	7.4317983e-05, 7.9147585e-05, 8.4291040e-05, 8.9768747e-05,
	9.5602426e-05, 1.0181521e-04, 1.0843174e-04, 1.1547824e-04,
	1.2298267e-04, 1.3097477e-04, 1.3948625e-04, 1.4855085e-04,
	1.5820453e-04, 1.6848555e-04, 1.7943469e-04, 1.9109536e-04,
	2.0351382e-04, 2.1673929e-04, 2.3082423e-04, 2.4582449e-04,
	2.6179955e-04, 2.7881276e-04, 2.9693158e-04, 3.1622787e-04,
	3.3677814e-04, 3.5866388e-04, 3.8197188e-04, 4.0679456e-04,
	4.3323036e-04, 4.6138411e-04, 4.9136745e-04, 5.2329927e-04,
	5.5730621e-04, 5.9352311e-04, 6.3209358e-04, 6.7317058e-04,
	7.1691700e-04, 7.6350630e-04, 8.1312324e-04, 8.6596457e-04,
	9.2223983e-04, 9.8217216e-04, 1.0459992e-03, 1.1139742e-03,
	1.1863665e-03, 1.2634633e-03, 1.3455702e-03, 1.4330129e-03,
	1.5261382e-03, 1.6253153e-03, 1.7309374e-03, 1.8434235e-03,
	1.9632195e-03, 2.0908006e-03, 2.2266726e-03, 2.3713743e-03,
	2.5254795e-03, 2.6895994e-03, 2.8643847e-03, 3.0505286e-03,
	3.2487691e-03, 3.4598925e-03, 3.6847358e-03, 3.9241906e-03,
	4.1792066e-03, 4.4507950e-03, 4.7400328e-03, 5.0480668e-03,
	5.3761186e-03, 5.7254891e-03, 6.0975636e-03, 6.4938176e-03,
	6.9158225e-03, 7.3652516e-03, 7.8438871e-03, 8.3536271e-03,
	8.8964928e-03, 9.4746281e-03, 1.0090295e-02, 1.0745945e-02,
	1.1444159e-02, 1.2187651e-02, 1.2979283e-02, 1.3822069e-02,
	1.4719198e-02, 1.5674067e-02, 1.6690299e-02, 1.7771747e-02,
	1.8922516e-02, 2.0146992e-02, 2.1449826e-02, 2.2835955e-02,
	2.4310610e-02, 2.5879327e-02, 2.7547960e-02, 2.9322685e-02,
	3.1210006e-02, 3.3216763e-02, 3.5350151e-02, 3.7617719e-02,
	4.0027364e-02, 4.2588371e-02, 4.5309457e-02, 4.8200802e-02,
	5.1273058e-02, 5.4537385e-02, 5.8006485e-02, 6.1693665e-02,
	6.5612908e-02, 6.9778914e-02, 7.4207203e-02, 7.8916226e-02,
	8.3931534e-02, 8.9283807e-02, 9.4993020e-02, 1.0108252e-01,
	1.0757619e-01, 1.1450189e-01, 1.2188219e-01, 1.2974637e-01,
	1.3812528e-01, 1.4706125e-01, 1.5658841e-01, 1.6675256e-01,
	1.7761058e-01, 1.8921137e-01, 2.0161523e-01, 2.1488482e-01,
	2.2908529e-01, 2.4428394e-01, 2.6055090e-01, 2.7796073e-01,
	2.9658725e-01, 3.1661042e-01, 3.3812463e-01, 3.6122990e-01,
	3.8603311e-01, 4.1265844e-01, 4.4124888e-01, 4.7195596e-01,
	5.0495021e-01, 5.4041186e-01, 5.7854143e-01, 6.1955075e-01,
	6.6367326e-01, 7.1116470e-01, 7.6230415e-01, 8.1739528e-01,
	8.7676724e-01, 9.4077563e-01, 1.0098029e+00, 1.0842557e+00,
}

// BarkMap fills dst[0:n] with the bark-scale mapping floor type 0 uses to
// map n spectral-domain bins into buckets of a barkMapSize-point LSP curve,
// for a channel sampled at rate. dst must have length n.
//
// bark(f) = 13.1*atan(0.00074*f) + 2.24*atan(0.0000000171*f^2) + 0.0001*f,
// the standard Vorbis I bark-scale approximation (spec §9.2.7).
func BarkMap(dst []int32, n, rate, barkMapSize int) {
	bark := func(f float64) float64 {
		return 13.1*math.Atan(0.00074*f) + 2.24*math.Atan(0.0000000171*f*f) + 0.0001*f
	}
	nyquistBark := bark(float64(rate) / 2)
	for i := 0; i < n-1; i++ {
		v := int32(float64(barkMapSize) * bark((float64(rate)/2)*float64(i)/float64(n)) / nyquistBark)
		if v >= int32(barkMapSize) {
			v = int32(barkMapSize - 1)
		}
		dst[i] = v
	}
	dst[n-1] = int32(barkMapSize)
}
