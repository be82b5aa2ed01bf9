package element

// periodicTable lists every element by atomic number.  Weights are IUPAC
// standard atomic weights (conventional values; mass number of the most
// stable isotope for elements without a standard weight).  Group is 0 for
// lanthanides and actinides.
var periodicTable = []Info{
	{Symbol: "H", Name: "Hydrogen", AtomicNumber: 1, Weight: 1.008, Group: 1, Period: 1},
	{Symbol: "He", Name: "Helium", AtomicNumber: 2, Weight: 4.0026, Group: 18, Period: 1},
	{Symbol: "Li", Name: "Lithium", AtomicNumber: 3, Weight: 6.94, Group: 1, Period: 2},
	{Symbol: "Be", Name: "Beryllium", AtomicNumber: 4, Weight: 9.0122, Group: 2, Period: 2},
	{Symbol: "B", Name: "Boron", AtomicNumber: 5, Weight: 10.81, Group: 13, Period: 2},
	{Symbol: "C", Name: "Carbon", AtomicNumber: 6, Weight: 12.011, Group: 14, Period: 2},
	{Symbol: "N", Name: "Nitrogen", AtomicNumber: 7, Weight: 14.007, Group: 15, Period: 2},
	{Symbol: "O", Name: "Oxygen", AtomicNumber: 8, Weight: 15.999, Group: 16, Period: 2},
	{Symbol: "F", Name: "Fluorine", AtomicNumber: 9, Weight: 18.998, Group: 17, Period: 2},
	{Symbol: "Ne", Name: "Neon", AtomicNumber: 10, Weight: 20.180, Group: 18, Period: 2},
	{Symbol: "Na", Name: "Sodium", AtomicNumber: 11, Weight: 22.990, Group: 1, Period: 3},
	{Symbol: "Mg", Name: "Magnesium", AtomicNumber: 12, Weight: 24.305, Group: 2, Period: 3},
	{Symbol: "Al", Name: "Aluminium", AtomicNumber: 13, Weight: 26.982, Group: 13, Period: 3},
	{Symbol: "Si", Name: "Silicon", AtomicNumber: 14, Weight: 28.085, Group: 14, Period: 3},
	{Symbol: "P", Name: "Phosphorus", AtomicNumber: 15, Weight: 30.974, Group: 15, Period: 3},
	{Symbol: "S", Name: "Sulfur", AtomicNumber: 16, Weight: 32.06, Group: 16, Period: 3},
	{Symbol: "Cl", Name: "Chlorine", AtomicNumber: 17, Weight: 35.45, Group: 17, Period: 3},
	{Symbol: "Ar", Name: "Argon", AtomicNumber: 18, Weight: 39.948, Group: 18, Period: 3},
	{Symbol: "K", Name: "Potassium", AtomicNumber: 19, Weight: 39.098, Group: 1, Period: 4},
	{Symbol: "Ca", Name: "Calcium", AtomicNumber: 20, Weight: 40.078, Group: 2, Period: 4},
	{Symbol: "Sc", Name: "Scandium", AtomicNumber: 21, Weight: 44.956, Group: 3, Period: 4},
	{Symbol: "Ti", Name: "Titanium", AtomicNumber: 22, Weight: 47.867, Group: 4, Period: 4},
	{Symbol: "V", Name: "Vanadium", AtomicNumber: 23, Weight: 50.942, Group: 5, Period: 4},
	{Symbol: "Cr", Name: "Chromium", AtomicNumber: 24, Weight: 51.996, Group: 6, Period: 4},
	{Symbol: "Mn", Name: "Manganese", AtomicNumber: 25, Weight: 54.938, Group: 7, Period: 4},
	{Symbol: "Fe", Name: "Iron", AtomicNumber: 26, Weight: 55.845, Group: 8, Period: 4},
	{Symbol: "Co", Name: "Cobalt", AtomicNumber: 27, Weight: 58.933, Group: 9, Period: 4},
	{Symbol: "Ni", Name: "Nickel", AtomicNumber: 28, Weight: 58.693, Group: 10, Period: 4},
	{Symbol: "Cu", Name: "Copper", AtomicNumber: 29, Weight: 63.546, Group: 11, Period: 4},
	{Symbol: "Zn", Name: "Zinc", AtomicNumber: 30, Weight: 65.38, Group: 12, Period: 4},
	{Symbol: "Ga", Name: "Gallium", AtomicNumber: 31, Weight: 69.723, Group: 13, Period: 4},
	{Symbol: "Ge", Name: "Germanium", AtomicNumber: 32, Weight: 72.630, Group: 14, Period: 4},
	{Symbol: "As", Name: "Arsenic", AtomicNumber: 33, Weight: 74.922, Group: 15, Period: 4},
	{Symbol: "Se", Name: "Selenium", AtomicNumber: 34, Weight: 78.971, Group: 16, Period: 4},
	{Symbol: "Br", Name: "Bromine", AtomicNumber: 35, Weight: 79.904, Group: 17, Period: 4},
	{Symbol: "Kr", Name: "Krypton", AtomicNumber: 36, Weight: 83.798, Group: 18, Period: 4},
	{Symbol: "Rb", Name: "Rubidium", AtomicNumber: 37, Weight: 85.468, Group: 1, Period: 5},
	{Symbol: "Sr", Name: "Strontium", AtomicNumber: 38, Weight: 87.62, Group: 2, Period: 5},
	{Symbol: "Y", Name: "Yttrium", AtomicNumber: 39, Weight: 88.906, Group: 3, Period: 5},
	{Symbol: "Zr", Name: "Zirconium", AtomicNumber: 40, Weight: 91.224, Group: 4, Period: 5},
	{Symbol: "Nb", Name: "Niobium", AtomicNumber: 41, Weight: 92.906, Group: 5, Period: 5},
	{Symbol: "Mo", Name: "Molybdenum", AtomicNumber: 42, Weight: 95.95, Group: 6, Period: 5},
	{Symbol: "Tc", Name: "Technetium", AtomicNumber: 43, Weight: 98, Group: 7, Period: 5},
	{Symbol: "Ru", Name: "Ruthenium", AtomicNumber: 44, Weight: 101.07, Group: 8, Period: 5},
	{Symbol: "Rh", Name: "Rhodium", AtomicNumber: 45, Weight: 102.91, Group: 9, Period: 5},
	{Symbol: "Pd", Name: "Palladium", AtomicNumber: 46, Weight: 106.42, Group: 10, Period: 5},
	{Symbol: "Ag", Name: "Silver", AtomicNumber: 47, Weight: 107.87, Group: 11, Period: 5},
	{Symbol: "Cd", Name: "Cadmium", AtomicNumber: 48, Weight: 112.41, Group: 12, Period: 5},
	{Symbol: "In", Name: "Indium", AtomicNumber: 49, Weight: 114.82, Group: 13, Period: 5},
	{Symbol: "Sn", Name: "Tin", AtomicNumber: 50, Weight: 118.71, Group: 14, Period: 5},
	{Symbol: "Sb", Name: "Antimony", AtomicNumber: 51, Weight: 121.76, Group: 15, Period: 5},
	{Symbol: "Te", Name: "Tellurium", AtomicNumber: 52, Weight: 127.60, Group: 16, Period: 5},
	{Symbol: "I", Name: "Iodine", AtomicNumber: 53, Weight: 126.90, Group: 17, Period: 5},
	{Symbol: "Xe", Name: "Xenon", AtomicNumber: 54, Weight: 131.29, Group: 18, Period: 5},
	{Symbol: "Cs", Name: "Caesium", AtomicNumber: 55, Weight: 132.91, Group: 1, Period: 6},
	{Symbol: "Ba", Name: "Barium", AtomicNumber: 56, Weight: 137.33, Group: 2, Period: 6},
	{Symbol: "La", Name: "Lanthanum", AtomicNumber: 57, Weight: 138.91, Group: 0, Period: 6},
	{Symbol: "Ce", Name: "Cerium", AtomicNumber: 58, Weight: 140.12, Group: 0, Period: 6},
	{Symbol: "Pr", Name: "Praseodymium", AtomicNumber: 59, Weight: 140.91, Group: 0, Period: 6},
	{Symbol: "Nd", Name: "Neodymium", AtomicNumber: 60, Weight: 144.24, Group: 0, Period: 6},
	{Symbol: "Pm", Name: "Promethium", AtomicNumber: 61, Weight: 145, Group: 0, Period: 6},
	{Symbol: "Sm", Name: "Samarium", AtomicNumber: 62, Weight: 150.36, Group: 0, Period: 6},
	{Symbol: "Eu", Name: "Europium", AtomicNumber: 63, Weight: 151.96, Group: 0, Period: 6},
	{Symbol: "Gd", Name: "Gadolinium", AtomicNumber: 64, Weight: 157.25, Group: 0, Period: 6},
	{Symbol: "Tb", Name: "Terbium", AtomicNumber: 65, Weight: 158.93, Group: 0, Period: 6},
	{Symbol: "Dy", Name: "Dysprosium", AtomicNumber: 66, Weight: 162.50, Group: 0, Period: 6},
	{Symbol: "Ho", Name: "Holmium", AtomicNumber: 67, Weight: 164.93, Group: 0, Period: 6},
	{Symbol: "Er", Name: "Erbium", AtomicNumber: 68, Weight: 167.26, Group: 0, Period: 6},
	{Symbol: "Tm", Name: "Thulium", AtomicNumber: 69, Weight: 168.93, Group: 0, Period: 6},
	{Symbol: "Yb", Name: "Ytterbium", AtomicNumber: 70, Weight: 173.05, Group: 0, Period: 6},
	{Symbol: "Lu", Name: "Lutetium", AtomicNumber: 71, Weight: 174.97, Group: 3, Period: 6},
	{Symbol: "Hf", Name: "Hafnium", AtomicNumber: 72, Weight: 178.49, Group: 4, Period: 6},
	{Symbol: "Ta", Name: "Tantalum", AtomicNumber: 73, Weight: 180.95, Group: 5, Period: 6},
	{Symbol: "W", Name: "Tungsten", AtomicNumber: 74, Weight: 183.84, Group: 6, Period: 6},
	{Symbol: "Re", Name: "Rhenium", AtomicNumber: 75, Weight: 186.21, Group: 7, Period: 6},
	{Symbol: "Os", Name: "Osmium", AtomicNumber: 76, Weight: 190.23, Group: 8, Period: 6},
	{Symbol: "Ir", Name: "Iridium", AtomicNumber: 77, Weight: 192.22, Group: 9, Period: 6},
	{Symbol: "Pt", Name: "Platinum", AtomicNumber: 78, Weight: 195.08, Group: 10, Period: 6},
	{Symbol: "Au", Name: "Gold", AtomicNumber: 79, Weight: 196.97, Group: 11, Period: 6},
	{Symbol: "Hg", Name: "Mercury", AtomicNumber: 80, Weight: 200.59, Group: 12, Period: 6},
	{Symbol: "Tl", Name: "Thallium", AtomicNumber: 81, Weight: 204.38, Group: 13, Period: 6},
	{Symbol: "Pb", Name: "Lead", AtomicNumber: 82, Weight: 207.2, Group: 14, Period: 6},
	{Symbol: "Bi", Name: "Bismuth", AtomicNumber: 83, Weight: 208.98, Group: 15, Period: 6},
	{Symbol: "Po", Name: "Polonium", AtomicNumber: 84, Weight: 209, Group: 16, Period: 6},
	{Symbol: "At", Name: "Astatine", AtomicNumber: 85, Weight: 210, Group: 17, Period: 6},
	{Symbol: "Rn", Name: "Radon", AtomicNumber: 86, Weight: 222, Group: 18, Period: 6},
	{Symbol: "Fr", Name: "Francium", AtomicNumber: 87, Weight: 223, Group: 1, Period: 7},
	{Symbol: "Ra", Name: "Radium", AtomicNumber: 88, Weight: 226, Group: 2, Period: 7},
	{Symbol: "Ac", Name: "Actinium", AtomicNumber: 89, Weight: 227, Group: 0, Period: 7},
	{Symbol: "Th", Name: "Thorium", AtomicNumber: 90, Weight: 232.04, Group: 0, Period: 7},
	{Symbol: "Pa", Name: "Protactinium", AtomicNumber: 91, Weight: 231.04, Group: 0, Period: 7},
	{Symbol: "U", Name: "Uranium", AtomicNumber: 92, Weight: 238.03, Group: 0, Period: 7},
	{Symbol: "Np", Name: "Neptunium", AtomicNumber: 93, Weight: 237, Group: 0, Period: 7},
	{Symbol: "Pu", Name: "Plutonium", AtomicNumber: 94, Weight: 244, Group: 0, Period: 7},
	{Symbol: "Am", Name: "Americium", AtomicNumber: 95, Weight: 243, Group: 0, Period: 7},
	{Symbol: "Cm", Name: "Curium", AtomicNumber: 96, Weight: 247, Group: 0, Period: 7},
	{Symbol: "Bk", Name: "Berkelium", AtomicNumber: 97, Weight: 247, Group: 0, Period: 7},
	{Symbol: "Cf", Name: "Californium", AtomicNumber: 98, Weight: 251, Group: 0, Period: 7},
	{Symbol: "Es", Name: "Einsteinium", AtomicNumber: 99, Weight: 252, Group: 0, Period: 7},
	{Symbol: "Fm", Name: "Fermium", AtomicNumber: 100, Weight: 257, Group: 0, Period: 7},
	{Symbol: "Md", Name: "Mendelevium", AtomicNumber: 101, Weight: 258, Group: 0, Period: 7},
	{Symbol: "No", Name: "Nobelium", AtomicNumber: 102, Weight: 259, Group: 0, Period: 7},
	{Symbol: "Lr", Name: "Lawrencium", AtomicNumber: 103, Weight: 266, Group: 3, Period: 7},
	{Symbol: "Rf", Name: "Rutherfordium", AtomicNumber: 104, Weight: 267, Group: 4, Period: 7},
	{Symbol: "Db", Name: "Dubnium", AtomicNumber: 105, Weight: 268, Group: 5, Period: 7},
	{Symbol: "Sg", Name: "Seaborgium", AtomicNumber: 106, Weight: 269, Group: 6, Period: 7},
	{Symbol: "Bh", Name: "Bohrium", AtomicNumber: 107, Weight: 270, Group: 7, Period: 7},
	{Symbol: "Hs", Name: "Hassium", AtomicNumber: 108, Weight: 277, Group: 8, Period: 7},
	{Symbol: "Mt", Name: "Meitnerium", AtomicNumber: 109, Weight: 278, Group: 9, Period: 7},
	{Symbol: "Ds", Name: "Darmstadtium", AtomicNumber: 110, Weight: 281, Group: 10, Period: 7},
	{Symbol: "Rg", Name: "Roentgenium", AtomicNumber: 111, Weight: 282, Group: 11, Period: 7},
	{Symbol: "Cn", Name: "Copernicium", AtomicNumber: 112, Weight: 285, Group: 12, Period: 7},
	{Symbol: "Nh", Name: "Nihonium", AtomicNumber: 113, Weight: 286, Group: 13, Period: 7},
	{Symbol: "Fl", Name: "Flerovium", AtomicNumber: 114, Weight: 289, Group: 14, Period: 7},
	{Symbol: "Mc", Name: "Moscovium", AtomicNumber: 115, Weight: 290, Group: 15, Period: 7},
	{Symbol: "Lv", Name: "Livermorium", AtomicNumber: 116, Weight: 293, Group: 16, Period: 7},
	{Symbol: "Ts", Name: "Tennessine", AtomicNumber: 117, Weight: 294, Group: 17, Period: 7},
	{Symbol: "Og", Name: "Oganesson", AtomicNumber: 118, Weight: 294, Group: 18, Period: 7},
}
